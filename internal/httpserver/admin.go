package httpserver

import (
	"errors"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/events"
	"github.com/raynott/storefront/internal/logging"
	"github.com/raynott/storefront/internal/middleware"
	"github.com/raynott/storefront/internal/models"
	"github.com/raynott/storefront/internal/session"
)

type AdminHTTP struct {
	Backend  *backend.Client
	Sessions *session.Store
	Producer *events.Producer
}

func (h *AdminHTTP) token(c echo.Context) string {
	sid, err := middleware.SessionID(c)
	if err != nil {
		return ""
	}
	return h.Sessions.Token(c.Request().Context(), sid)
}

// ListProducts renders the admin product table, newest first.
func (h *AdminHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.products")

	products, err := h.Backend.ListProducts(ctx, h.token(c), backend.ProductFilters{})
	if err != nil {
		l.Error("admin_products_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Unable to load products. API connection error."})
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// CreateProduct asks the backend for a sample product the admin can edit there.
func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create.product")

	product, err := h.Backend.CreateProduct(ctx, h.token(c))
	if err != nil {
		l.Error("admin_create_product_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Failed to create sample product."})
	}

	sid, _ := middleware.SessionID(c)
	publish(c, h.Producer, sid, map[string]any{
		"type":       "product_created",
		"session_id": sid,
		"product_id": product.ID,
	})

	l.Info("product created", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete.product")

	id := c.Param("id")
	if err := h.Backend.DeleteProduct(ctx, h.token(c), id); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			l.Warn("admin_delete_product_not_found", "status", 404, "product_id", id)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found."})
		}
		l.Error("admin_delete_product_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Failed to delete product. Check permissions."})
	}

	sid, _ := middleware.SessionID(c)
	publish(c, h.Producer, sid, map[string]any{
		"type":       "product_deleted",
		"session_id": sid,
		"product_id": id,
	})

	l.Info("product deleted", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

// ListOrders renders every order in the store for the admin table.
func (h *AdminHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders")

	orders, err := h.Backend.AllOrders(ctx, h.token(c))
	if err != nil {
		l.Error("admin_orders_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Unable to load orders. Please check the API connection."})
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}
