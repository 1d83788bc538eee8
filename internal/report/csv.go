package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lukman83/envato-scrape/internal/models"
)

var (
	saleCountHeader = []string{
		"Category", "Products", "Total Sales", "Average Sales",
		"Total Revenue", "Average Revenue", "Total Products", "Sales Ratio",
	}
	headHeader = []string{"URL", "Title", "Sales", "Price", "Total Revenue", "Author Username"}
)

// WriteCSV writes an unquoted header line followed by rows in which every
// field is double-quoted and embedded quotes are doubled.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(header, ","))
	bw.WriteByte('\n')
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quote(field))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCategorySaleCount renders CategorySaleCount rows.
func WriteCategorySaleCount(w io.Writer, rows []CategoryStats) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		total := ""
		if r.TotalProducts != nil {
			total = strconv.FormatInt(*r.TotalProducts, 10)
		}
		records = append(records, []string{
			r.Category,
			strconv.Itoa(r.Products),
			strconv.FormatInt(r.TotalSales, 10),
			money(r.AverageSales),
			money(r.TotalRevenue),
			money(r.AverageRevenue),
			total,
			strconv.FormatFloat(r.SalesRatio, 'f', 4, 64),
		})
	}
	return WriteCSV(w, saleCountHeader, records)
}

// WriteCategoryHead renders CategoryHead products.
func WriteCategoryHead(w io.Writer, products []models.Product) error {
	records := make([][]string, 0, len(products))
	for _, p := range products {
		records = append(records, []string{
			p.URL,
			p.Name,
			strconv.FormatInt(p.NumberOfSales, 10),
			money(p.PriceDollars()),
			money(float64(p.RevenueCents()) / 100),
			p.AuthorUsername,
		})
	}
	return WriteCSV(w, headHeader, records)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
