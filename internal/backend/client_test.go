package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raynott/storefront/internal/models"
)

func TestClient_Login(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req["email"] != "a@b.c" || req["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name": "Alice", "email": "a@b.c", "isAdmin": false, "token": "tok-123",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	sess, err := client.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", sess.Name)
	assert.Equal(t, "tok-123", sess.Token)
	assert.False(t, sess.IsAdmin)

	_, err = client.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestClient_BearerTokenAttached(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Order{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	_, err := client.MyOrders(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	// no token, no header
	_, err = client.ListProducts(context.Background(), "", ProductFilters{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestProductFilters_Query(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filters ProductFilters
		want    string
	}{
		{name: "all defaults", filters: ProductFilters{}, want: ""},
		{name: "category All is default", filters: ProductFilters{Category: "All"}, want: ""},
		{name: "search only", filters: ProductFilters{Search: "ear buds"}, want: "search=ear+buds"},
		{name: "category", filters: ProductFilters{Category: "Audio"}, want: "category=Audio"},
		{
			name:    "price band",
			filters: ProductFilters{PriceMin: 100, PriceMax: 500},
			want:    "price_max=500&price_min=100",
		},
		{
			name:    "open upper bound not encoded",
			filters: ProductFilters{PriceMin: 0, PriceMax: PriceMaxOpen},
			want:    "",
		},
		{
			name:    "min above zero encodes both",
			filters: ProductFilters{PriceMin: 500, PriceMax: PriceMaxOpen},
			want:    "price_max=99999&price_min=500",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.filters.Query().Encode())
		})
	}
}

func TestClient_GetProduct_DecodesBackendKeys(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_id":"p1","name":"Buds","price":50,"isFeatured":true,"countInStock":2}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	product, err := client.GetProduct(context.Background(), "", "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.True(t, product.Featured)
	assert.Equal(t, 2, product.CountInStock)
}

func TestClient_GetProduct_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "product not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetProduct(context.Background(), "", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_CreateOrder(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.OrderItems, 1)
		assert.Equal(t, "p1", req.OrderItems[0].Product)
		assert.Equal(t, float64(149), req.TotalPrice)

		json.NewEncoder(w).Encode(models.Order{
			ID:            "order-1",
			OrderItems:    req.OrderItems,
			PaymentMethod: req.PaymentMethod,
			ItemsPrice:    req.ItemsPrice,
			ShippingPrice: req.ShippingPrice,
			TotalPrice:    req.TotalPrice,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	order, err := client.CreateOrder(context.Background(), "tok", CreateOrderRequest{
		OrderItems:    []models.OrderItem{{Product: "p1", Name: "B", Qty: 1, Price: 50}},
		PaymentMethod: "Cash on Delivery",
		ItemsPrice:    50,
		ShippingPrice: 99,
		TotalPrice:    149,
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, float64(149), order.TotalPrice)
}
