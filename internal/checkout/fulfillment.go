package checkout

import (
	"context"
	"fmt"

	"github.com/primosportswear/storefront/internal/backend"
	"github.com/primosportswear/storefront/pkg/enums"
	"github.com/primosportswear/storefront/pkg/logger"
)

// Fulfillment records the purchase on the store backend after payment is
// confirmed. Implementations must be safe to call exactly once per session.
type Fulfillment interface {
	Fulfill(ctx context.Context, intent PurchaseIntent) error
}

type orderClient interface {
	CreateOrder(ctx context.Context, input backend.OrderInput) (string, error)
	DeleteFromCart(ctx context.Context, userID, productID string) error
}

// OrderFulfillment creates one backend order per intent line, then clears the
// purchased rows from the cart. Order creation failures are fatal to the
// fulfillment; cart cleanup failures are logged and swallowed because the next
// poll will reconcile the view anyway.
type OrderFulfillment struct {
	client orderClient
	logg   *logger.Logger
}

// NewOrderFulfillment builds the default fulfillment.
func NewOrderFulfillment(client orderClient, logg *logger.Logger) (*OrderFulfillment, error) {
	if client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &OrderFulfillment{client: client, logg: logg}, nil
}

func (f *OrderFulfillment) Fulfill(ctx context.Context, intent PurchaseIntent) error {
	for _, line := range intent.Lines {
		input := backend.OrderInput{
			UserID:         intent.UserID,
			Name:           line.Name,
			Size:           line.Size,
			Category:       line.Category,
			Price:          line.UnitPrice,
			Quantity:       line.Quantity,
			TotalAmount:    line.Subtotal(),
			Status:         enums.OrderStatusPending,
			Address:        intent.Address,
			DeliveryOption: intent.DeliveryOption,
		}
		if _, err := f.client.CreateOrder(ctx, input); err != nil {
			return err
		}
	}

	for _, line := range intent.Lines {
		if line.ProductID == "" || len(line.CartEntryIDs) == 0 {
			continue
		}
		if err := f.client.DeleteFromCart(ctx, intent.UserID, line.ProductID); err != nil {
			f.logg.Warn(f.logg.WithUserID(ctx, intent.UserID),
				"cart cleanup failed for product "+line.ProductID+": "+err.Error())
		}
	}
	return nil
}
