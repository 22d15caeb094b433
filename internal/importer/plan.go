package importer

import (
	"fmt"
	"sort"

	"github.com/hleeroa/Autoshop/internal/model"
)

// Plan is a validated document reshaped into the rows the repository
// persists. Building the plan performs every document-level check, so
// the repository never sees invalid input mid-transaction.
type Plan struct {
	ShopName   string
	Categories []model.Category
	Listings   []PlanListing
}

type PlanListing struct {
	ExternalID  int64
	Model       string
	ProductName string
	CategoryID  int64
	Quantity    int
	Price       int64
	PriceRRC    int64
	Parameters  []PlanParameter
}

type PlanParameter struct {
	Name  string
	Value string
}

// ParameterCount is the number of parameter rows the plan produces.
func (p *Plan) ParameterCount() int {
	n := 0
	for _, l := range p.Listings {
		n += len(l.Parameters)
	}
	return n
}

// BuildPlan validates doc and flattens it. Duplicate category ids
// within one document collapse to a single entry, last name wins —
// the same resolve-by-id rule the database upsert applies across
// documents. A goods entry referencing a category id not declared in
// the document fails the whole build, as does a listing id appearing
// twice: the catalog keys listings by (shop, external id).
func BuildPlan(doc *Document) (*Plan, error) {
	if doc.Shop == "" {
		return nil, &ValidationError{Field: "shop", Detail: "shop name is required"}
	}

	byID := make(map[int64]string, len(doc.Categories))
	order := make([]int64, 0, len(doc.Categories))
	for i, c := range doc.Categories {
		if c.ID <= 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("categories[%d].id", i), Detail: "category id must be a positive integer"}
		}
		if c.Name == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("categories[%d].name", i), Detail: "category name is required"}
		}
		if _, seen := byID[c.ID]; !seen {
			order = append(order, c.ID)
		}
		byID[c.ID] = c.Name
	}

	plan := &Plan{ShopName: doc.Shop}
	for _, id := range order {
		plan.Categories = append(plan.Categories, model.Category{ID: id, Name: byID[id]})
	}

	seenGoods := make(map[int64]bool, len(doc.Goods))
	for i, g := range doc.Goods {
		if g.ID <= 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("goods[%d].id", i), Detail: "listing id must be a positive integer"}
		}
		if seenGoods[g.ID] {
			return nil, &ValidationError{
				Field:  fmt.Sprintf("goods[%d].id", i),
				Detail: fmt.Sprintf("duplicate listing id %d", g.ID),
			}
		}
		seenGoods[g.ID] = true
		if g.Name == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("goods[%d].name", i), Detail: "product name is required"}
		}
		if _, ok := byID[g.Category]; !ok {
			return nil, &ValidationError{
				Field:  fmt.Sprintf("goods[%d].category", i),
				Detail: fmt.Sprintf("category %d is not declared in this document", g.Category),
			}
		}
		if g.Price <= 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("goods[%d].price", i), Detail: "price must be a positive integer"}
		}
		if g.PriceRRC < 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("goods[%d].price_rrc", i), Detail: "price_rrc must not be negative"}
		}
		if g.Quantity < 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("goods[%d].quantity", i), Detail: "quantity must not be negative"}
		}

		listing := PlanListing{
			ExternalID:  g.ID,
			Model:       g.Model,
			ProductName: g.Name,
			CategoryID:  g.Category,
			Quantity:    g.Quantity,
			Price:       g.Price,
			PriceRRC:    g.PriceRRC,
		}

		names := make([]string, 0, len(g.Parameters))
		for name := range g.Parameters {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			listing.Parameters = append(listing.Parameters, PlanParameter{Name: name, Value: g.Parameters[name]})
		}

		plan.Listings = append(plan.Listings, listing)
	}

	return plan, nil
}
