package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/cart"
	"github.com/raynott/storefront/internal/models"
)

func validForm() ShippingForm {
	return ShippingForm{
		FullName: "Alice",
		Address:  "1 Main St",
		City:     "Mumbai",
		State:    "Maharashtra",
		Pincode:  "400001",
		Phone:    "9876543210",
	}
}

func filledCart() *cart.Cart {
	c := &cart.Cart{}
	c.Add(models.Product{ID: "p1", Name: "Buds", Price: 50, Image: "buds.jpg", CountInStock: 3}, 1)
	return c
}

func TestShippingForm_Validate(t *testing.T) {
	t.Parallel()

	form := validForm()
	require.NoError(t, form.Validate())
	assert.Equal(t, "Cash on Delivery", form.PaymentMethod)

	missing := validForm()
	missing.City = ""
	err := missing.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Submit_EmptyCart(t *testing.T) {
	t.Parallel()

	svc := NewService(backend.NewClient("http://backend.invalid"))
	_, err := svc.Submit(context.Background(), "sid", "tok", &cart.Cart{}, validForm())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.ErrorIs(t, err, ErrValidation)

	state, _ := svc.State("sid")
	assert.Equal(t, StateIdle, state)
}

func TestService_Submit_Success_ClearsCart(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req backend.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		require.Len(t, req.OrderItems, 1)
		assert.Equal(t, "p1", req.OrderItems[0].Product)
		assert.Equal(t, float64(50), req.ItemsPrice)
		assert.Equal(t, float64(99), req.ShippingPrice)
		assert.Equal(t, float64(149), req.TotalPrice)
		assert.Equal(t, "Alice", req.ShippingAddress.FullName)

		json.NewEncoder(w).Encode(models.Order{ID: "order-1", TotalPrice: req.TotalPrice})
	}))
	defer srv.Close()

	svc := NewService(backend.NewClient(srv.URL))
	c := filledCart()

	order, err := svc.Submit(context.Background(), "sid", "tok", c, validForm())
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, 0, c.Len())

	state, lastErr := svc.State("sid")
	assert.Equal(t, StateSuccess, state)
	assert.NoError(t, lastErr)
}

func TestService_Submit_Failure_KeepsCartAndAllowsRetry(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	failing.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
			return
		}
		json.NewEncoder(w).Encode(models.Order{ID: "order-2"})
	}))
	defer srv.Close()

	svc := NewService(backend.NewClient(srv.URL))
	c := filledCart()

	_, err := svc.Submit(context.Background(), "sid", "tok", c, validForm())
	require.Error(t, err)
	assert.Equal(t, 1, c.Len())

	state, lastErr := svc.State("sid")
	assert.Equal(t, StateFailed, state)
	assert.Error(t, lastErr)

	// a fresh user-initiated attempt goes through
	failing.Store(false)
	order, err := svc.Submit(context.Background(), "sid", "tok", c, validForm())
	require.NoError(t, err)
	assert.Equal(t, "order-2", order.ID)
	assert.Equal(t, 0, c.Len())
}

func TestService_Submit_RejectsConcurrentSubmission(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(models.Order{ID: "order-3"})
	}))
	defer srv.Close()

	svc := NewService(backend.NewClient(srv.URL))
	c := filledCart()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), "sid", "tok", c, validForm())
		done <- err
	}()

	require.Eventually(t, func() bool {
		state, _ := svc.State("sid")
		return state == StateSubmitting
	}, 2*time.Second, 10*time.Millisecond)

	_, err := svc.Submit(context.Background(), "sid", "tok", c, validForm())
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	require.NoError(t, <-done)

	state, _ := svc.State("sid")
	assert.Equal(t, StateSuccess, state)
}
