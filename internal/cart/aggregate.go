package cart

import (
	"github.com/primosportswear/storefront/internal/backend"
	"github.com/shopspring/decimal"
)

// LineItem is one deduplicated, quantity-aggregated cart row. Quantity always
// equals the number of underlying cart entry IDs.
type LineItem struct {
	CartEntryIDs []string        `json:"cart_entry_ids"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	ImageURL     string          `json:"image_url,omitempty"`
}

// Subtotal returns unit price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Group folds raw add-to-cart events into line items. Encounter order of the
// first occurrence fixes each item's position; later occurrences only bump the
// quantity. Entries whose product was deleted server-side aggregate with safe
// defaults instead of failing the whole snapshot.
func Group(entries []backend.RawCartEntry) []LineItem {
	items := make([]LineItem, 0, len(entries))
	index := make(map[string]int, len(entries))

	for _, entry := range entries {
		if i, ok := index[entry.ProductID]; ok {
			items[i].Quantity++
			items[i].CartEntryIDs = append(items[i].CartEntryIDs, entry.ID)
			continue
		}

		item := LineItem{
			CartEntryIDs: []string{entry.ID},
			ProductID:    entry.ProductID,
			Quantity:     1,
		}
		if entry.Product != nil {
			item.ProductName = entry.Product.Name
			item.UnitPrice = entry.Product.Price
			item.ImageURL = entry.Product.Image
		}
		index[entry.ProductID] = len(items)
		items = append(items, item)
	}

	return items
}
