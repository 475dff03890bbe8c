package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/cart"
	"github.com/raynott/storefront/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrEmptyCart  = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrInFlight   = errors.New("submission already in progress")
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	}
	return "idle"
}

// ShippingForm is what the checkout page submits alongside the cart.
type ShippingForm struct {
	FullName      string `json:"fullName"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"paymentMethod"`
}

func (f *ShippingForm) Validate() error {
	required := map[string]string{
		"fullName": f.FullName,
		"address":  f.Address,
		"city":     f.City,
		"state":    f.State,
		"pincode":  f.Pincode,
		"phone":    f.Phone,
	}
	for name, v := range required {
		if v == "" {
			return fmt.Errorf("%w: %s required", ErrValidation, name)
		}
	}
	if f.PaymentMethod == "" {
		f.PaymentMethod = "Cash on Delivery"
	}
	return nil
}

// Service runs one submission flow per session:
// Idle -> Submitting -> Success, or back to Idle on failure so the user can
// retry with the form intact. Nothing is retried automatically.
type Service struct {
	Backend *backend.Client

	mu    sync.Mutex
	flows map[string]*flow
}

type flow struct {
	state   State
	lastErr error
}

func NewService(client *backend.Client) *Service {
	return &Service{
		Backend: client,
		flows:   make(map[string]*flow),
	}
}

// State reports the current flow state for a session and, after a failure,
// the error that caused it.
func (s *Service) State(sessionID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[sessionID]
	if !ok {
		return StateIdle, nil
	}
	return f.state, f.lastErr
}

// Submit builds the order payload from the cart, the form, and the current
// totals, and posts it. On success the cart is cleared; the caller navigates
// to the confirmation view. At most one submission per session is in flight.
func (s *Service) Submit(ctx context.Context, sessionID, token string, c *cart.Cart, form ShippingForm) (*models.Order, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	f, ok := s.flows[sessionID]
	if !ok {
		f = &flow{}
		s.flows[sessionID] = f
	}
	if f.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrInFlight
	}
	items := c.Items()
	if len(items) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}
	f.state = StateSubmitting
	f.lastErr = nil
	s.mu.Unlock()

	totals := c.Totals()
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, models.OrderItem{
			Product: it.Product.ID,
			Name:    it.Product.Name,
			Qty:     it.Quantity,
			Price:   it.Product.Price,
			Image:   it.Product.Image,
		})
	}

	order, err := s.Backend.CreateOrder(ctx, token, backend.CreateOrderRequest{
		OrderItems: orderItems,
		ShippingAddress: models.ShippingAddress{
			FullName: form.FullName,
			Address:  form.Address,
			City:     form.City,
			State:    form.State,
			Pincode:  form.Pincode,
			Phone:    form.Phone,
		},
		PaymentMethod: form.PaymentMethod,
		ItemsPrice:    totals.ItemsPrice,
		ShippingPrice: totals.ShippingPrice,
		TotalPrice:    totals.TotalPrice,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Failed is observable until the next attempt; the flow accepts a
		// fresh user-initiated Submit immediately.
		f.state = StateFailed
		f.lastErr = err
		return nil, err
	}

	c.Clear()
	f.state = StateSuccess
	return order, nil
}
