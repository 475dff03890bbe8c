package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/raynott/storefront/internal/models"
)

type CreateOrderRequest struct {
	OrderItems      []models.OrderItem     `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ItemsPrice      float64                `json:"itemsPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", token, nil, req, &order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &order, nil
}

// MyOrders lists the orders of the user the token belongs to.
func (c *Client) MyOrders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/my", token, nil, nil, &orders); err != nil {
		return nil, fmt.Errorf("my orders: %w", err)
	}
	return orders, nil
}

// AllOrders lists every order in the store; admin only.
func (c *Client) AllOrders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", token, nil, nil, &orders); err != nil {
		return nil, fmt.Errorf("all orders: %w", err)
	}
	return orders, nil
}
