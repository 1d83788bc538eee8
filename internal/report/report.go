// Package report derives sales views from cached products.
package report

import (
	"sort"
	"strings"

	"github.com/lukman83/envato-scrape/internal/models"
)

// DefaultHeadSize is the number of products CategoryHead returns by default.
const DefaultHeadSize = 10

// CategoryStats aggregates the cached products of one classification.
type CategoryStats struct {
	Category       string  `json:"category"`
	Products       int     `json:"products"`
	TotalSales     int64   `json:"total_sales"`
	AverageSales   float64 `json:"average_sales"`
	TotalRevenue   float64 `json:"total_revenue"`
	AverageRevenue float64 `json:"average_revenue"`
	// TotalProducts is the category's known item count, nil when unknown.
	TotalProducts *int64  `json:"total_products,omitempty"`
	SalesRatio    float64 `json:"sales_ratio"`
}

// CategorySaleCount groups the products of the site with the given domain
// (e.g. "themeforest.net") by classification. Rows are ordered by average
// revenue, highest first, then by category name.
func CategorySaleCount(products map[int64]models.Product, categories []models.Category, domain string) []CategoryStats {
	type acc struct {
		count        int
		sales        int64
		revenueCents int64
	}
	groups := make(map[string]*acc)
	for _, p := range products {
		if p.Site != domain {
			continue
		}
		g, ok := groups[p.Classification]
		if !ok {
			g = &acc{}
			groups[p.Classification] = g
		}
		g.count++
		g.sales += p.NumberOfSales
		g.revenueCents += p.RevenueCents()
	}

	rows := make([]CategoryStats, 0, len(groups))
	for name, g := range groups {
		row := CategoryStats{
			Category:     name,
			Products:     g.count,
			TotalSales:   g.sales,
			TotalRevenue: float64(g.revenueCents) / 100,
		}
		if g.count > 0 {
			row.AverageSales = float64(g.sales) / float64(g.count)
			row.AverageRevenue = row.TotalRevenue / float64(g.count)
		}

		denominator := int64(1)
		if cat, ok := matchCategory(categories, name); ok && cat.TotalProducts != nil {
			total := *cat.TotalProducts
			row.TotalProducts = &total
			if total > 0 {
				denominator = total
			}
		}
		row.SalesRatio = float64(g.sales) / float64(denominator)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AverageRevenue != rows[j].AverageRevenue {
			return rows[i].AverageRevenue > rows[j].AverageRevenue
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// matchCategory finds the cached category for a classification label. An
// exact path match wins; otherwise path or name are compared ignoring case.
func matchCategory(categories []models.Category, classification string) (models.Category, bool) {
	for _, c := range categories {
		if c.Path == classification {
			return c, true
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Path, classification) || strings.EqualFold(c.Name, classification) {
			return c, true
		}
	}
	return models.Category{}, false
}

// CategoryHead returns up to n products of the site with the given domain
// whose classification equals category exactly, best sellers first.
func CategoryHead(products map[int64]models.Product, domain, category string, n int) []models.Product {
	if n <= 0 {
		return []models.Product{}
	}
	out := make([]models.Product, 0)
	for _, p := range products {
		if p.Site == domain && p.Classification == category {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NumberOfSales != out[j].NumberOfSales {
			return out[i].NumberOfSales > out[j].NumberOfSales
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
