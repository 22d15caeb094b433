package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `
shop: Связной
categories:
  - id: 224
    name: Смартфоны
  - id: 15
    name: Аксессуары
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Диагональ (дюйм)": "6.5"
      "Встроенная память (Гб)": "512"
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "Связной", doc.Shop)
	require.Len(t, doc.Categories, 2)
	assert.Equal(t, int64(224), doc.Categories[0].ID)
	assert.Equal(t, "Смартфоны", doc.Categories[0].Name)

	require.Len(t, doc.Goods, 1)
	good := doc.Goods[0]
	assert.Equal(t, int64(4216292), good.ID)
	assert.Equal(t, int64(224), good.Category)
	assert.Equal(t, int64(110000), good.Price)
	assert.Equal(t, int64(116990), good.PriceRRC)
	assert.Equal(t, 14, good.Quantity)
	assert.Equal(t, "512", good.Parameters["Встроенная память (Гб)"])
}

func TestParseDocumentMalformed(t *testing.T) {
	_, err := ParseDocument([]byte("shop: [unclosed"))
	require.Error(t, err)

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
