package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lukman83/envato-scrape/internal/cache"
	"github.com/lukman83/envato-scrape/internal/envato"
	"github.com/lukman83/envato-scrape/internal/report"
)

type tools struct {
	store *cache.Store
}

func registerTools(s *server.MCPServer, t *tools) {
	// list_categories
	listTool := mcp.NewTool("list_categories",
		mcp.WithDescription("List the cached categories of an Envato site"),
		mcp.WithString("site",
			mcp.Required(),
			mcp.Description("Envato site, e.g. audiojungle or themeforest"),
		),
	)
	s.AddTool(listTool, t.handleListCategories)

	// category_sale_count
	saleCountTool := mcp.NewTool("category_sale_count",
		mcp.WithDescription("Sales and revenue per category, computed from cached products"),
		mcp.WithString("site",
			mcp.Required(),
			mcp.Description("Envato site"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json or csv (default: json)"),
		),
	)
	s.AddTool(saleCountTool, t.handleCategorySaleCount)

	// category_head
	headTool := mcp.NewTool("category_head",
		mcp.WithDescription("Best-selling cached products of one category"),
		mcp.WithString("site",
			mcp.Required(),
			mcp.Description("Envato site"),
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Product classification, matched exactly"),
		),
		mcp.WithNumber("number",
			mcp.Description("Number of products (default: 10)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json or csv (default: json)"),
		),
	)
	s.AddTool(headTool, t.handleCategoryHead)

	// product_detail
	detailTool := mcp.NewTool("product_detail",
		mcp.WithDescription("Get a cached product by id"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Numeric product id"),
		),
		mcp.WithString("attribute",
			mcp.Description("Return only the value of this product attribute"),
		),
	)
	s.AddTool(detailTool, t.handleProductDetail)
}

func (t *tools) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	site, errResult := requireSite(request)
	if errResult != nil {
		return errResult, nil
	}

	categories := t.store.SiteCategories(string(site))
	if len(categories) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf(
			"no cached categories for %s; run 'envato-scrape categories list --site %s' first", site, site)), nil
	}
	return jsonResult(categories)
}

func (t *tools) handleCategorySaleCount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	site, errResult := requireSite(request)
	if errResult != nil {
		return errResult, nil
	}

	rows := report.CategorySaleCount(t.store.Products(), t.store.SiteCategories(string(site)), site.Domain())
	if request.GetString("format", "json") == "csv" {
		var buf bytes.Buffer
		if err := report.WriteCategorySaleCount(&buf, rows); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("report error: %v", err)), nil
		}
		return mcp.NewToolResultText(buf.String()), nil
	}
	return jsonResult(rows)
}

func (t *tools) handleCategoryHead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	site, errResult := requireSite(request)
	if errResult != nil {
		return errResult, nil
	}
	category := request.GetString("category", "")
	if category == "" {
		return mcp.NewToolResultError("category is required"), nil
	}
	number := request.GetInt("number", report.DefaultHeadSize)

	products := report.CategoryHead(t.store.Products(), site.Domain(), category, number)
	if request.GetString("format", "json") == "csv" {
		var buf bytes.Buffer
		if err := report.WriteCategoryHead(&buf, products); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("report error: %v", err)), nil
		}
		return mcp.NewToolResultText(buf.String()), nil
	}
	return jsonResult(products)
}

func (t *tools) handleProductDetail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("id", "")
	if raw == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid id %q", raw)), nil
	}

	product, ok := t.store.Product(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("product %d is not cached", id)), nil
	}

	if name := request.GetString("attribute", ""); name != "" {
		value, found := product.GetAttribute(name)
		if !found {
			return mcp.NewToolResultError(fmt.Sprintf("product %d has no attribute %q", id, name)), nil
		}
		return jsonResult(map[string]any{"name": name, "value": value})
	}
	return jsonResult(product)
}

func requireSite(request mcp.CallToolRequest) (envato.Site, *mcp.CallToolResult) {
	raw := request.GetString("site", "")
	if raw == "" {
		return "", mcp.NewToolResultError("site is required")
	}
	site, err := envato.ParseSite(raw)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return site, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
