package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alluringfresh/alluring-backend/api/controllers"
	"github.com/alluringfresh/alluring-backend/api/middleware"
	authsvc "github.com/alluringfresh/alluring-backend/internal/auth"
	cartsvc "github.com/alluringfresh/alluring-backend/internal/cart"
	checkoutsvc "github.com/alluringfresh/alluring-backend/internal/checkout"
	favoritesvc "github.com/alluringfresh/alluring-backend/internal/favorites"
	mediasvc "github.com/alluringfresh/alluring-backend/internal/media"
	ordersvc "github.com/alluringfresh/alluring-backend/internal/orders"
	productsvc "github.com/alluringfresh/alluring-backend/internal/products"
	profilesvc "github.com/alluringfresh/alluring-backend/internal/profiles"
	reviewsvc "github.com/alluringfresh/alluring-backend/internal/reviews"
	usersvc "github.com/alluringfresh/alluring-backend/internal/users"
	"github.com/alluringfresh/alluring-backend/pkg/auth/session"
	"github.com/alluringfresh/alluring-backend/pkg/config"
	"github.com/alluringfresh/alluring-backend/pkg/db"
	"github.com/alluringfresh/alluring-backend/pkg/enums"
	"github.com/alluringfresh/alluring-backend/pkg/logger"
	"github.com/alluringfresh/alluring-backend/pkg/metrics"
	"github.com/alluringfresh/alluring-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router needs wired in.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	SessionManager  sessionManager
	HTTPMetrics     *metrics.HTTPMetrics
	AuthService     authsvc.Service
	RegisterService authsvc.RegisterService
	ProductService  productsvc.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	OrderService    ordersvc.Service
	FavoriteService favoritesvc.Service
	ProfileService  profilesvc.Service
	ReviewService   reviewsvc.Service
	MediaService    mediasvc.Service
	UserRepo        *usersvc.Repository
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(deps.DB, deps.Redis))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
				middleware.Idempotency(deps.Redis, logg),
			).Post("/register", controllers.Register(deps.RegisterService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.AuthService, logg))
			r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, deps.SessionManager, logg)).Post("/logout", controllers.Logout(deps.AuthService, logg))
		})

		// Public catalog browsing.
		r.Get("/products", controllers.ListProducts(deps.ProductService, logg))
		r.Get("/products/{productID}", controllers.GetProduct(deps.ProductService, logg))
		r.Get("/products/{productID}/reviews", controllers.ListProductReviews(deps.ReviewService, logg))

		// Authenticated storefront surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Get("/cart", controllers.GetCart(deps.CartService, logg))
			r.Put("/cart", controllers.SetCartItem(deps.CartService, logg))
			r.Delete("/cart", controllers.ClearCart(deps.CartService, logg))
			r.Post("/cart/items", controllers.AddCartItem(deps.CartService, logg))
			r.Delete("/cart/items/{productID}", controllers.RemoveCartItem(deps.CartService, logg))

			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))

			r.Get("/orders", controllers.ListMyOrders(deps.OrderService, logg))
			r.Get("/orders/{orderID}", controllers.GetOrder(deps.OrderService, logg))

			r.Get("/favorites", controllers.ListFavorites(deps.FavoriteService, logg))
			r.Get("/favorites/ids", controllers.ListFavoriteIDs(deps.FavoriteService, logg))
			r.Post("/favorites", controllers.AddFavorite(deps.FavoriteService, logg))
			r.Delete("/favorites/{productID}", controllers.RemoveFavorite(deps.FavoriteService, logg))

			r.Get("/profile", controllers.GetProfile(deps.ProfileService, logg))
			r.Put("/profile", controllers.UpdateProfile(deps.ProfileService, logg))

			r.Post("/products/{productID}/reviews", controllers.CreateReview(deps.ReviewService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/auth/login", controllers.AdminLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
			r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Get("/products", controllers.AdminListProducts(deps.ProductService, logg))
			r.Post("/products", controllers.AdminCreateProduct(deps.ProductService, logg))
			r.Patch("/products/{productID}", controllers.AdminUpdateProduct(deps.ProductService, logg))
			r.Delete("/products/{productID}", controllers.AdminDeleteProduct(deps.ProductService, logg))

			r.Get("/orders", controllers.AdminListOrders(deps.OrderService, logg))
			r.Get("/orders/stats", controllers.AdminOrderStats(deps.OrderService, logg))
			r.Patch("/orders/{orderID}/status", controllers.AdminUpdateOrderStatus(deps.OrderService, logg))

			r.Get("/customers", controllers.AdminListCustomers(deps.UserRepo, logg))
			r.Post("/media/presign", controllers.PresignMedia(deps.MediaService, logg))
		})
	})

	return r
}
