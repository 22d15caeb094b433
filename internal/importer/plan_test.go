package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *Document {
	return &Document{
		Shop: "TechStore",
		Categories: []DocumentCategory{
			{ID: 1, Name: "Phones"},
			{ID: 2, Name: "Accessories"},
		},
		Goods: []DocumentGood{
			{
				ID:       100,
				Category: 1,
				Name:     "Phone X",
				Model:    "phone/x",
				Price:    50000,
				PriceRRC: 55000,
				Quantity: 3,
				Parameters: map[string]string{
					"color":  "black",
					"memory": "128",
				},
			},
			{ID: 101, Category: 2, Name: "Case", Price: 1000, Quantity: 20},
		},
	}
}

func TestBuildPlan(t *testing.T) {
	plan, err := BuildPlan(validDocument())
	require.NoError(t, err)

	assert.Equal(t, "TechStore", plan.ShopName)
	require.Len(t, plan.Categories, 2)
	require.Len(t, plan.Listings, 2)
	assert.Equal(t, 2, plan.ParameterCount())

	// parameters come out sorted by name
	params := plan.Listings[0].Parameters
	require.Len(t, params, 2)
	assert.Equal(t, "color", params[0].Name)
	assert.Equal(t, "memory", params[1].Name)
}

func TestBuildPlanDuplicateCategoriesCollapse(t *testing.T) {
	doc := validDocument()
	doc.Categories = append(doc.Categories, DocumentCategory{ID: 1, Name: "Smartphones"})

	plan, err := BuildPlan(doc)
	require.NoError(t, err)

	require.Len(t, plan.Categories, 2)
	assert.Equal(t, int64(1), plan.Categories[0].ID)
	assert.Equal(t, "Smartphones", plan.Categories[0].Name)
}

func TestBuildPlanUnknownCategoryFails(t *testing.T) {
	doc := validDocument()
	doc.Goods[1].Category = 99

	_, err := BuildPlan(doc)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "goods[1].category", verr.Field)
}

func TestBuildPlanDuplicateGoodsIDFails(t *testing.T) {
	doc := validDocument()
	doc.Goods = append(doc.Goods, DocumentGood{ID: 100, Category: 2, Name: "Phone X copy", Price: 2000, Quantity: 1})

	_, err := BuildPlan(doc)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "goods[2].id", verr.Field)
}

func TestBuildPlanEmptyGoods(t *testing.T) {
	doc := validDocument()
	doc.Goods = nil

	plan, err := BuildPlan(doc)
	require.NoError(t, err)
	assert.Empty(t, plan.Listings)
	assert.Len(t, plan.Categories, 2)
}

func TestBuildPlanValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Document)
		field  string
	}{
		{"missing shop", func(d *Document) { d.Shop = "" }, "shop"},
		{"bad category id", func(d *Document) { d.Categories[0].ID = 0 }, "categories[0].id"},
		{"missing category name", func(d *Document) { d.Categories[1].Name = "" }, "categories[1].name"},
		{"zero listing id", func(d *Document) { d.Goods[0].ID = 0 }, "goods[0].id"},
		{"missing product name", func(d *Document) { d.Goods[0].Name = "" }, "goods[0].name"},
		{"zero price", func(d *Document) { d.Goods[0].Price = 0 }, "goods[0].price"},
		{"negative price_rrc", func(d *Document) { d.Goods[0].PriceRRC = -1 }, "goods[0].price_rrc"},
		{"negative quantity", func(d *Document) { d.Goods[0].Quantity = -5 }, "goods[0].quantity"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDocument()
			tc.mutate(doc)

			_, err := BuildPlan(doc)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}
