package inventory

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTestdata(t *testing.T) {
	f, err := os.Open("testdata/products.csv")
	require.NoError(t, err)
	defer f.Close()

	products, err := ReadProducts(f)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "prod_abc", products[0].ID)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.Equal(t, "1200", products[0].Price.String())
	assert.Equal(t, 20, products[0].Stock)
	assert.True(t, products[0].CostKnown)
	assert.Equal(t, "800", products[0].Cost.String())

	assert.False(t, products[2].CostKnown, "empty cost_price means unknown")
}

func TestProductsRoundTrip(t *testing.T) {
	catalog := DefaultCatalog()

	var buf bytes.Buffer
	require.NoError(t, WriteProducts(&buf, catalog))

	got, err := ReadProducts(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(catalog))
	for i := range catalog {
		assert.Equal(t, catalog[i].ID, got[i].ID)
		assert.Equal(t, catalog[i].Stock, got[i].Stock)
		assert.True(t, catalog[i].Price.Equal(got[i].Price))
		assert.True(t, catalog[i].Cost.Equal(got[i].Cost))
	}
}

func TestMarshalProductKeepsPrecision(t *testing.T) {
	p := Product{
		ID:        "prod_clip",
		Name:      "Paper clip",
		Price:     decimal.RequireFromString("0.015"),
		Stock:     1000,
		Cost:      decimal.RequireFromString("0.005"),
		CostKnown: true,
	}
	got, err := UnmarshalProduct(MarshalProduct(p))
	require.NoError(t, err)
	assert.Equal(t, "0.015", got.Price.String())
	assert.Equal(t, "0.005", got.Cost.String())
}

func TestUnmarshalProductErrors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{"short row", []string{"p"}, "expected 5 fields"},
		{"bad price", []string{"p", "n", "x", "1", ""}, "parsing price"},
		{"bad stock", []string{"p", "n", "1", "many", ""}, "parsing stock"},
		{"bad cost", []string{"p", "n", "1", "1", "?"}, "parsing cost_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalProduct(tt.record)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	inv := newTestInventory(t)
	require.NoError(t, inv.UpdateStock("prod_abc", -2))
	require.NoError(t, inv.Save(dir))

	_, err := os.Stat(filepath.Join(dir, "inventory", "products.csv"))
	require.NoError(t, err)

	loaded, err := Load(dir)
	require.NoError(t, err)
	p, ok := loaded.Product("prod_abc")
	require.True(t, ok)
	assert.Equal(t, 18, p.Stock)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
