package envato

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lukman83/envato-scrape/internal/models"
)

const searchEndpoint = "discovery/search/search/item"

func categoriesEndpoint(site Site) string {
	return fmt.Sprintf("market/categories:%s.json", site)
}

// Categories lists a site's categories. found is false when the response has
// no "categories" key.
func (c *Client) Categories(ctx context.Context, site Site) (categories []models.Category, found bool, err error) {
	data, err := c.Call(ctx, categoriesEndpoint(site), nil)
	if err != nil {
		return nil, false, err
	}

	raw, ok := data["categories"].([]any)
	if !ok {
		return nil, false, nil
	}
	categories = make([]models.Category, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			categories = append(categories, models.CategoryFromMap(m))
		}
	}
	return categories, true, nil
}

// SearchParams are the query parameters of the item search endpoint.
type SearchParams struct {
	Site          Site
	Page          int
	Category      string
	Term          string
	SortBy        SortBy
	SortDirection string
}

// Values encodes the parameters; optional ones are omitted when empty.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	v.Set("site", p.Site.Domain())
	page := p.Page
	if page <= 0 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Term != "" {
		v.Set("term", p.Term)
	}
	if p.SortBy != "" {
		v.Set("sort_by", string(p.SortBy))
	}
	if p.SortDirection != "" {
		v.Set("sort_direction", p.SortDirection)
	}
	return v
}

// SearchResult is one page of search matches.
type SearchResult struct {
	Products  []models.Product
	TotalHits int64
}

// Search fetches one page of search results.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	data, err := c.Call(ctx, searchEndpoint, p.Values())
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Products: []models.Product{}}
	if total, ok := data["total_hits"].(json.Number); ok {
		result.TotalHits, _ = total.Int64()
	}
	matches, _ := data["matches"].([]any)
	for _, item := range matches {
		if m, ok := item.(map[string]any); ok {
			result.Products = append(result.Products, models.ProductFromMap(m))
		}
	}
	return result, nil
}
