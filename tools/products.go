package tools

import (
	"context"
	"sort"
	"strings"

	"github.com/bniladridas/snapenhanceai/providers"
)

// Product is one catalog entry.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// catalog is ordered by popularity.
var catalog = []Product{
	{1, "Smartphone X", 799.99, "Electronics", 4.5},
	{2, "Laptop Pro", 1299.99, "Electronics", 4.8},
	{3, "Wireless Headphones", 149.99, "Electronics", 4.3},
	{4, "Running Shoes", 89.99, "Sports", 4.2},
	{5, "Coffee Maker", 59.99, "Kitchen", 4.0},
	{6, "Fitness Tracker", 79.99, "Electronics", 4.1},
	{7, "Backpack", 49.99, "Fashion", 4.4},
	{8, "Smart Watch", 199.99, "Electronics", 4.6},
}

// ProductSearchTool searches the in-memory demo catalog.
type ProductSearchTool struct{}

func (t *ProductSearchTool) Name() string { return "search_products" }

func (t *ProductSearchTool) Definition() providers.ToolFunction {
	return providers.ToolFunction{
		Name:        t.Name(),
		Description: "Search for products in an e-commerce catalog",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The search query for products",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "The category to filter by (optional)",
				},
				"max_price": map[string]interface{}{
					"type":        "number",
					"description": "The maximum price to filter by (optional)",
				},
				"sort_by": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"price_asc", "price_desc", "popularity", "rating"},
					"description": "How to sort the results (optional)",
				},
			},
			"required": []string{"query"},
		},
	}
}

func (t *ProductSearchTool) Invoke(ctx context.Context, args map[string]interface{}) Result {
	query := argString(args, "query", "")
	category := argString(args, "category", "")
	sortBy := argString(args, "sort_by", "popularity")

	maxPrice, hasMaxPrice := args["max_price"].(float64)

	var results []Product
	for _, p := range catalog {
		if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if hasMaxPrice && p.Price > maxPrice {
			continue
		}
		results = append(results, p)
	}

	switch sortBy {
	case "price_asc":
		sort.Slice(results, func(i, j int) bool { return results[i].Price < results[j].Price })
	case "price_desc":
		sort.Slice(results, func(i, j int) bool { return results[i].Price > results[j].Price })
	case "rating":
		sort.Slice(results, func(i, j int) bool { return results[i].Rating > results[j].Rating })
		// default is popularity: catalog order already
	}

	result := Result{
		"query":   query,
		"sort_by": sortBy,
		"count":   len(results),
		"results": results,
	}
	if category != "" {
		result["category"] = category
	}
	if hasMaxPrice {
		result["max_price"] = maxPrice
	}
	return result
}
