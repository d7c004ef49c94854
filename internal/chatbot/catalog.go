package chatbot

import (
	"context"
	"fmt"
	"strings"

	"furniture-admin/internal/inventory"
	"furniture-admin/internal/obs"
)

type CatalogSource interface {
	ListProductsWithStock(ctx context.Context) ([]inventory.ProductWithStock, error)
}

// systemPrompt appends the current catalog to SystemPrompt. A catalog read
// failure is logged and the bare prompt is used.
func systemPrompt(ctx context.Context, catalog CatalogSource) string {
	if catalog == nil {
		return SystemPrompt
	}
	products, err := catalog.ListProductsWithStock(ctx)
	if err != nil {
		obs.Logger.Warn("chat_catalog_unavailable", "error", err)
		return SystemPrompt
	}
	if len(products) == 0 {
		return SystemPrompt
	}

	var b strings.Builder
	b.WriteString(SystemPrompt)
	b.WriteString("\n\nCurrent catalog (prices in IDR):")
	for _, p := range products {
		category := "-"
		if p.Category != nil {
			category = *p.Category
		}
		fmt.Fprintf(&b, "\n- %s [%s]: Rp %s, %d in stock", p.Name, category, p.Price.StringFixed(0), p.Available())
	}
	return b.String()
}
