package models

import "time"

// Product is owned by the remote storefront API; this service only reads it
// (and, for admins, asks the API to create or delete one).
type Product struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	Image        string    `json:"image"`
	Description  string    `json:"description"`
	CountInStock int       `json:"countInStock"`
	Featured     bool      `json:"isFeatured"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p Product) InStock() bool {
	return p.CountInStock > 0
}

// CartLineItem is a product snapshot plus a quantity. The cart holds at most
// one line item per product ID.
type CartLineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type CartTotals struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// Identity is the authenticated user as the backend reports it.
type Identity struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Session is an identity plus the opaque bearer token the backend issued.
// The token is never inspected locally, only attached to outgoing requests.
type Session struct {
	Identity
	Token string `json:"token"`
}

type OrderItem struct {
	Product string  `json:"product"`
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Price   float64 `json:"price"`
	Image   string  `json:"image"`
}

type ShippingAddress struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Phone    string `json:"phone"`
}

// Order is backend-owned and read-only once created.
type Order struct {
	ID              string          `json:"_id"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	IsDelivered     bool            `json:"isDelivered"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// SessionEntry is one durable key/value row of a browser session, the
// equivalent of a localStorage slot.
type SessionEntry struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"             json:"id"`
	SessionID string `gorm:"uniqueIndex:idx_session_key;not null" json:"session_id"`
	Key       string `gorm:"uniqueIndex:idx_session_key;not null" json:"key"`
	Value     string `gorm:"not null"                             json:"value"`
	UpdatedAt int64  `gorm:"not null"                             json:"updated_at"`
}

func (SessionEntry) TableName() string {
	return "session_entries"
}
