package cart

import (
	"sync"

	"github.com/raynott/storefront/internal/models"
)

const (
	// Orders above this items total ship for free.
	FreeShippingThreshold = 3000
	// Flat fee for everything else.
	ShippingFee = 99
)

// Cart holds the line items of one browser session. All mutations go through
// its methods; totals are always derived from the current items, never stored.
type Cart struct {
	mu    sync.Mutex
	items []models.CartLineItem
}

// Add merges by product ID: an existing line item has its quantity
// incremented, otherwise a new line item is appended. qty below 1 counts as 1.
func (c *Cart) Add(product models.Product, qty int) models.CartLineItem {
	if qty < 1 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity += qty
			return c.items[i]
		}
	}
	item := models.CartLineItem{Product: product, Quantity: qty}
	c.items = append(c.items, item)
	return item
}

// Remove deletes the line item with the given product ID; absent IDs are a no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, it := range c.items {
		if it.Product.ID != productID {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

// UpdateQty sets the quantity of the matching line item, coerced to at least 1.
func (c *Cart) UpdateQty(productID string, qty int) {
	if qty < 1 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = qty
			return
		}
	}
}

// Has reports whether a line item with the given product ID exists.
func (c *Cart) Has(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range c.items {
		if it.Product.ID == productID {
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the current line items.
func (c *Cart) Items() []models.CartLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartLineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Totals recomputes the pricing summary from the current line items.
// Shipping is free for an empty cart and above the free-shipping threshold.
func (c *Cart) Totals() models.CartTotals {
	c.mu.Lock()
	defer c.mu.Unlock()

	var itemsPrice float64
	for _, it := range c.items {
		itemsPrice += it.Product.Price * float64(it.Quantity)
	}

	var shippingPrice float64
	if itemsPrice != 0 && itemsPrice <= FreeShippingThreshold {
		shippingPrice = ShippingFee
	}

	return models.CartTotals{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    itemsPrice + shippingPrice,
	}
}

// Store hands out one Cart per session ID. Carts are ephemeral: they live in
// memory only and do not survive a restart.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{}
		s.carts[sessionID] = c
	}
	return c
}

func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
