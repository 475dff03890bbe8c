package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/catalog"
	"github.com/raynott/storefront/internal/logging"
	"github.com/raynott/storefront/internal/middleware"
	"github.com/raynott/storefront/internal/models"
	"github.com/raynott/storefront/internal/session"
)

type CatalogHTTP struct {
	Backend   *backend.Client
	Searchers *catalog.Store
	Sessions  *session.Store
}

func filtersFromQuery(c echo.Context) catalog.Filters {
	category := c.QueryParam("category")
	if category == "" {
		category = "All"
	}
	return catalog.Filters{
		Search:   c.QueryParam("search"),
		Category: category,
		Price:    catalog.PriceRangeByLabel(c.QueryParam("price")),
	}
}

// Home is the listing view: it fetches products for the requested filters
// and returns them together with the filter vocabulary.
func (h *CatalogHTTP) Home(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "home")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("home_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}
	token := h.Sessions.Token(ctx, sid)

	filters := filtersFromQuery(c)
	products, err := h.Searchers.Get(sid).Search(ctx, token, filters)
	if err != nil {
		l.Error("home_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "Could not load products. Please check API connection.",
		})
	}
	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products":    products,
		"filters":     filters,
		"categories":  catalog.Categories,
		"priceRanges": catalog.PriceRanges,
	})
}

// SetFilters records a filter change and schedules the debounced refresh.
// The browser polls FilterResults for the outcome.
func (h *CatalogHTTP) SetFilters(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "set.filters")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("set_filters_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Search   string `json:"search"`
		Category string `json:"category"`
		Price    string `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("set_filters_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if req.Category == "" {
		req.Category = "All"
	}

	filters := catalog.Filters{
		Search:   req.Search,
		Category: req.Category,
		Price:    catalog.PriceRangeByLabel(req.Price),
	}
	h.Searchers.Get(sid).Schedule(h.Sessions.Token(ctx, sid), filters)

	return c.JSON(http.StatusAccepted, echo.Map{"status": "scheduled"})
}

// FilterResults returns the session's last applied listing snapshot.
func (h *CatalogHTTP) FilterResults(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "filter.results")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("filter_results_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	snap := h.Searchers.Get(sid).Snapshot()
	resp := echo.Map{
		"products": snap.Products,
		"filters":  snap.Filters,
		"loaded":   snap.Loaded,
	}
	if snap.Err != nil {
		resp["error"] = "Could not load products. Please check API connection."
	}
	return c.JSON(http.StatusOK, resp)
}

// ProductDetail renders one product; a missing product is an inline message,
// not a failure of the view.
func (h *CatalogHTTP) ProductDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.detail")

	sid, err := middleware.SessionID(c)
	if err != nil {
		l.Error("product_detail_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}
	token := h.Sessions.Token(ctx, sid)

	product, err := h.Backend.GetProduct(ctx, token, c.Param("id"))
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			l.Warn("product_detail_not_found", "status", 404, "id", c.Param("id"))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found."})
		}
		l.Error("product_detail_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Product data could not be loaded."})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product": product,
		"inStock": product.InStock(),
	})
}
