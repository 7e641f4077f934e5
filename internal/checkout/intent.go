package checkout

import (
	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/internal/cart"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/enums"
	"github.com/primosportswear/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// IntentLine is one purchasable line inside an intent. Cart-sourced lines
// carry the raw cart entry IDs so fulfillment can clear them afterwards.
type IntentLine struct {
	ProductID    string
	CartEntryIDs []string
	Name         string
	Size         string
	Category     string
	UnitPrice    decimal.Decimal
	Quantity     int
}

// Subtotal returns unit price times quantity.
func (l IntentLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PurchaseIntent captures everything needed to charge a buyer once and record
// the resulting orders.
type PurchaseIntent struct {
	UserID         string
	Email          string
	Description    string
	Lines          []IntentLine
	Address        *types.Address
	DeliveryOption enums.DeliveryOption
}

// Total sums the line subtotals.
func (p PurchaseIntent) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Validate rejects intents that could never produce a valid payment link or
// order, before any network call happens.
func (p PurchaseIntent) Validate() error {
	if p.UserID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(p.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	for _, line := range p.Lines {
		if line.Name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "every line needs a product name")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "every line needs a positive quantity")
		}
	}
	if p.Total().Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}
	if p.DeliveryOption != "" && !p.DeliveryOption.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery option")
	}
	if p.Address != nil && !p.Address.Complete() {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is incomplete")
	}
	return nil
}

// IntentFromProduct builds a single-line intent for a direct purchase that
// bypasses the cart. With no cart entry IDs attached, fulfillment leaves the
// user's cart untouched.
func IntentFromProduct(userID, email string, product backend.Product, quantity int, addr *types.Address, delivery enums.DeliveryOption) PurchaseIntent {
	return PurchaseIntent{
		UserID: userID,
		Email:  email,
		Lines: []IntentLine{
			{
				ProductID: product.ID,
				Name:      product.Name,
				Size:      product.Size,
				Category:  product.Category,
				UnitPrice: product.Price,
				Quantity:  quantity,
			},
		},
		Address:        addr,
		DeliveryOption: delivery,
	}
}

// IntentFromCart converts the user's aggregated cart view into an intent.
func IntentFromCart(userID, email string, items []cart.LineItem, addr *types.Address, delivery enums.DeliveryOption) PurchaseIntent {
	lines := make([]IntentLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, IntentLine{
			ProductID:    item.ProductID,
			CartEntryIDs: append([]string(nil), item.CartEntryIDs...),
			Name:         item.ProductName,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
		})
	}
	return PurchaseIntent{
		UserID:         userID,
		Email:          email,
		Lines:          lines,
		Address:        addr,
		DeliveryOption: delivery,
	}
}
