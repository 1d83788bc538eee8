package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukman83/envato-scrape/internal/models"
)

const tf = "themeforest.net"

func catalog(items ...models.Product) map[int64]models.Product {
	out := make(map[int64]models.Product, len(items))
	for _, p := range items {
		out[p.ID] = p
	}
	return out
}

func item(id int64, site, class string, sales, cents int64) models.Product {
	return models.Product{
		ID:             id,
		Name:           "Item",
		Site:           site,
		Classification: class,
		NumberOfSales:  sales,
		PriceCents:     cents,
	}
}

func TestCategorySaleCount_MusicScenario(t *testing.T) {
	products := catalog(
		item(1, tf, "Music", 10, 500),
		item(2, tf, "Music", 20, 1000),
	)

	rows := CategorySaleCount(products, nil, tf)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Music", row.Category)
	assert.Equal(t, 2, row.Products)
	assert.Equal(t, int64(30), row.TotalSales)
	assert.InDelta(t, 15.00, row.AverageSales, 1e-9)
	assert.InDelta(t, 250.00, row.TotalRevenue, 1e-9)
	assert.InDelta(t, 125.00, row.AverageRevenue, 1e-9)
	assert.Nil(t, row.TotalProducts)
	assert.InDelta(t, 30.0, row.SalesRatio, 1e-9, "unknown total divides by one")

	var buf bytes.Buffer
	require.NoError(t, WriteCategorySaleCount(&buf, rows))
	assert.Equal(t,
		"Category,Products,Total Sales,Average Sales,Total Revenue,Average Revenue,Total Products,Sales Ratio\n"+
			`"Music","2","30","15.00","250.00","125.00","","30.0000"`+"\n",
		buf.String())
}

func TestCategorySaleCount_FiltersSiteAndSorts(t *testing.T) {
	products := catalog(
		item(1, tf, "Cheap", 100, 100),                // avg revenue 100
		item(2, tf, "Pricey", 10, 5000),               // avg revenue 500
		item(3, tf, "Alpha", 1, 10000),                // avg revenue 100, ties with Cheap
		item(4, "codecanyon.net", "Pricey", 999, 999), // other site
	)

	rows := CategorySaleCount(products, nil, tf)
	var names []string
	for _, r := range rows {
		names = append(names, r.Category)
	}
	assert.Equal(t, []string{"Pricey", "Alpha", "Cheap"}, names)
	assert.Equal(t, int64(10), rows[0].TotalSales)
}

func TestCategorySaleCount_UsesKnownTotals(t *testing.T) {
	products := catalog(
		item(1, tf, "music/ambient", 40, 100),
		item(2, tf, "Logos", 6, 100),
		item(3, tf, "Empty", 6, 100),
	)
	categories := []models.Category{
		models.Category{Name: "Ambient", Path: "music/ambient"}.WithTotal(200),
		models.Category{Name: "logos", Path: "graphics/logos"}.WithTotal(3),
		models.Category{Name: "Empty", Path: "empty"}.WithTotal(0),
	}

	rows := CategorySaleCount(products, categories, tf)
	byName := map[string]CategoryStats{}
	for _, r := range rows {
		byName[r.Category] = r
	}

	ambient := byName["music/ambient"]
	require.NotNil(t, ambient.TotalProducts)
	assert.Equal(t, int64(200), *ambient.TotalProducts)
	assert.InDelta(t, 0.2, ambient.SalesRatio, 1e-9)

	logos := byName["Logos"]
	require.NotNil(t, logos.TotalProducts, "matched by name ignoring case")
	assert.InDelta(t, 2.0, logos.SalesRatio, 1e-9)

	empty := byName["Empty"]
	require.NotNil(t, empty.TotalProducts)
	assert.Equal(t, int64(0), *empty.TotalProducts)
	assert.InDelta(t, 6.0, empty.SalesRatio, 1e-9, "zero total divides by one")
}

func TestCategorySaleCount_NoProducts(t *testing.T) {
	rows := CategorySaleCount(nil, nil, tf)
	assert.Empty(t, rows)

	var buf bytes.Buffer
	require.NoError(t, WriteCategorySaleCount(&buf, rows))
	assert.Equal(t, strings.Join(saleCountHeader, ",")+"\n", buf.String())
}

func TestCategoryHead(t *testing.T) {
	products := catalog(
		item(1, tf, "Music", 5, 100),
		item(2, tf, "Music", 50, 100),
		item(3, tf, "Music", 20, 100),
		item(4, tf, "Music", 20, 100),
		item(5, tf, "music", 500, 100),
		item(6, "audiojungle.net", "Music", 900, 100),
	)

	top := CategoryHead(products, tf, "Music", 3)
	var ids []int64
	for _, p := range top {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{2, 3, 4}, ids)

	assert.Len(t, CategoryHead(products, tf, "Music", DefaultHeadSize), 4)
	assert.Empty(t, CategoryHead(products, tf, "Music", 0))
	assert.Empty(t, CategoryHead(products, tf, "Nope", 10))
}

func TestWriteCategoryHead(t *testing.T) {
	p := models.Product{
		ID:             7,
		Name:           `The "Best" Theme, v2`,
		URL:            "https://themeforest.net/item/best/7",
		NumberOfSales:  12,
		PriceCents:     2999,
		AuthorUsername: "studio",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCategoryHead(&buf, []models.Product{p}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "URL,Title,Sales,Price,Total Revenue,Author Username", lines[0])
	assert.Equal(t,
		`"https://themeforest.net/item/best/7","The ""Best"" Theme, v2","12","29.99","359.88","studio"`,
		lines[1])
}

func TestWriteCSV_QuotesEveryField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"A", "B"}, [][]string{{"", `x"y`}, {"1,2", "line\nbreak"}}))
	assert.Equal(t, "A,B\n\"\",\"x\"\"y\"\n\"1,2\",\"line\nbreak\"\n", buf.String())
}
