package backend

import (
	"github.com/primosportswear/storefront/pkg/enums"
	"github.com/primosportswear/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is a storefront catalog entry as served by the store backend.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Size        string          `json:"size"`
	Category    string          `json:"category"`
}

// ProductSnapshot is the product data embedded in a cart row. It may be
// missing entirely when the product was deleted server-side.
type ProductSnapshot struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// RawCartEntry is one add-to-cart event as stored by the backend. The client
// only ever reads these and deletes them by product.
type RawCartEntry struct {
	ID        string           `json:"_id"`
	UserID    string           `json:"userID"`
	ProductID string           `json:"productID"`
	Product   *ProductSnapshot `json:"product"`
}

// OrderInput is the payload for CreateOrders.
type OrderInput struct {
	UserID         string               `json:"userId"`
	Name           string               `json:"name"`
	Size           string               `json:"size"`
	Category       string               `json:"category"`
	Price          decimal.Decimal      `json:"price"`
	Quantity       int                  `json:"quantity"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	Status         enums.OrderStatus    `json:"status"`
	Address        *types.Address       `json:"address,omitempty"`
	DeliveryOption enums.DeliveryOption `json:"deliveryOption,omitempty"`
}

// Order is an order record returned by getOrder.
type Order struct {
	ID          string          `json:"_id"`
	UserID      string          `json:"userId"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Size        string          `json:"size"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
}

// DesignInput is the payload for createdesign.
type DesignInput struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	ImgURL      string          `json:"imgUrl"`
	LogoURL     string          `json:"logoUrl"`
	Size        string          `json:"size"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
	Color       string          `json:"color"`
	Price       decimal.Decimal `json:"price"`
}

// Design is a stored custom jersey design, also served by the logos listing.
type Design struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	ImgURL      string          `json:"imgUrl"`
	LogoURL     string          `json:"logoUrl"`
	Size        string          `json:"size"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
	Color       string          `json:"color"`
	Price       decimal.Decimal `json:"price"`
}
