package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/cart"
	"github.com/raynott/storefront/internal/catalog"
	"github.com/raynott/storefront/internal/checkout"
	"github.com/raynott/storefront/internal/events"
	"github.com/raynott/storefront/internal/middleware"
	"github.com/raynott/storefront/internal/session"
)

type Deps struct {
	Backend       *backend.Client
	Carts         *cart.Store
	Searchers     *catalog.Store
	Sessions      *session.Store
	Checkout      *checkout.Service
	Producer      *events.Producer
	SessionSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	catalogHTTP := &CatalogHTTP{Backend: d.Backend, Searchers: d.Searchers, Sessions: d.Sessions}
	cartHTTP := &CartHTTP{Backend: d.Backend, Carts: d.Carts, Sessions: d.Sessions, Producer: d.Producer}
	authHTTP := &AuthHTTP{Sessions: d.Sessions, Producer: d.Producer}
	checkoutHTTP := &CheckoutHTTP{Flow: d.Checkout, Carts: d.Carts, Sessions: d.Sessions, Producer: d.Producer}
	profileHTTP := &ProfileHTTP{Backend: d.Backend, Sessions: d.Sessions}
	adminHTTP := &AdminHTTP{Backend: d.Backend, Sessions: d.Sessions, Producer: d.Producer}

	// Public views: anonymous visitors get a session minted on first contact.
	pub := e.Group("", middleware.EnsureSession(d.SessionSecret))

	pub.GET("/", catalogHTTP.Home)
	pub.POST("/filters", catalogHTTP.SetFilters)
	pub.GET("/filters/results", catalogHTTP.FilterResults)
	pub.GET("/products/:id", catalogHTTP.ProductDetail)

	pub.GET("/cart", cartHTTP.GetCart)
	pub.POST("/cart", cartHTTP.AddToCart)
	pub.PATCH("/cart/:id", cartHTTP.UpdateQty)
	pub.DELETE("/cart/:id", cartHTTP.RemoveFromCart)
	pub.DELETE("/cart", cartHTTP.ClearCart)

	pub.POST("/auth/login", authHTTP.Login)
	pub.POST("/auth/register", authHTTP.Register)
	pub.POST("/auth/logout", authHTTP.Logout)
	pub.GET("/auth/me", authHTTP.Me)

	pub.GET("/checkout", checkoutHTTP.State)

	// Logged-in views: an existing session cookie is required, and the
	// session must hold a backend identity.
	authed := e.Group("", middleware.SessionJWT(d.SessionSecret), middleware.RequireLogin(d.Sessions))

	authed.POST("/checkout", checkoutHTTP.Submit)
	authed.GET("/profile/orders", profileHTTP.MyOrders)

	admin := e.Group("/admin", middleware.SessionJWT(d.SessionSecret), middleware.AdminOnly(d.Sessions))

	admin.GET("/products", adminHTTP.ListProducts)
	admin.POST("/products", adminHTTP.CreateProduct)
	admin.DELETE("/products/:id", adminHTTP.DeleteProduct)
	admin.GET("/orders", adminHTTP.ListOrders)
}
