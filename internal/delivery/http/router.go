package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/riolentius/hideki-store-backend/internal/config"
	authhandler "github.com/riolentius/hideki-store-backend/internal/delivery/http/handler/auth"
	carthandler "github.com/riolentius/hideki-store-backend/internal/delivery/http/handler/cart"
	checkouthandler "github.com/riolentius/hideki-store-backend/internal/delivery/http/handler/checkout"
	paymenthandler "github.com/riolentius/hideki-store-backend/internal/delivery/http/handler/payment"
	producthandler "github.com/riolentius/hideki-store-backend/internal/delivery/http/handler/product"
	promohandler "github.com/riolentius/hideki-store-backend/internal/delivery/http/handler/promo"
	"github.com/riolentius/hideki-store-backend/internal/delivery/middleware"
	midtransgw "github.com/riolentius/hideki-store-backend/internal/gateway/midtrans"
	"github.com/riolentius/hideki-store-backend/internal/gateway/rajaongkir"
	adminrepo "github.com/riolentius/hideki-store-backend/internal/repository/postgres/admin"
	attemptrepo "github.com/riolentius/hideki-store-backend/internal/repository/postgres/attempt"
	cartrepo "github.com/riolentius/hideki-store-backend/internal/repository/postgres/cart"
	draftrepo "github.com/riolentius/hideki-store-backend/internal/repository/postgres/draft"
	productrepo "github.com/riolentius/hideki-store-backend/internal/repository/postgres/product"
	promorepo "github.com/riolentius/hideki-store-backend/internal/repository/postgres/promo"
	authuc "github.com/riolentius/hideki-store-backend/internal/usecase/auth"
	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
	checkoutuc "github.com/riolentius/hideki-store-backend/internal/usecase/checkout"
	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
	productuc "github.com/riolentius/hideki-store-backend/internal/usecase/product"
	promouc "github.com/riolentius/hideki-store-backend/internal/usecase/promo"
	shippinguc "github.com/riolentius/hideki-store-backend/internal/usecase/shipping"
)

type Deps struct {
	Config    config.Config
	DB        *pgxpool.Pool
	Log       *zap.Logger
	Listeners []paymentuc.Listener
}

func RegisterRoutes(app *fiber.App, d Deps) {
	cfg, db, log := d.Config, d.DB, d.Log

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	api := app.Group("/api")

	// Catalog wiring
	productUC := productuc.New(productrepo.NewProductStoreAdapter(productrepo.NewProductRepo(db)))
	productH := producthandler.New(productUC)

	// Cart wiring
	cartUC := cartuc.New(
		cartrepo.NewCartStoreAdapter(cartrepo.NewCartRepo(db)),
		productUC,
		cartuc.Defaults{Brand: cfg.StoreName, Size: cfg.DefaultSize, WeightGrams: cfg.ItemWeightGrams},
		log.Named("cart"),
	)
	cartH := carthandler.New(cartUC)

	// Promo wiring
	promoUC := promouc.New(promorepo.NewPromoStoreAdapter(promorepo.NewPromoRepo(db)), log.Named("promo"))
	promoH := promohandler.New(promoUC)

	// Shipping wiring (no API key: every quote uses the fallback table)
	var resolver shippinguc.Resolver
	if cfg.RajaOngkirAPIKey != "" {
		resolver = rajaongkir.New(cfg.RajaOngkirBaseURL, cfg.RajaOngkirAPIKey, cfg.ShippingTimeout)
	} else {
		log.Warn("RAJAONGKIR_API_KEY not set, shipping quotes use fallback rates")
	}
	shippingUC := shippinguc.New(resolver, shippinguc.Config{
		Origin:         cfg.ShippingOrigin,
		Couriers:       cfg.ShippingCouriers,
		MinWeightGrams: cfg.MinShippingWeightGrams,
		Timeout:        cfg.ShippingTimeout,
	}, log.Named("shipping"))

	// Payment wiring
	if cfg.MidtransServerKey == "" {
		log.Warn("MIDTRANS_SERVER_KEY not set, payment token requests will fail")
	}
	reconciler := paymentuc.NewReconciler(
		attemptrepo.NewAttemptStoreAdapter(attemptrepo.NewAttemptRepo(db)),
		midtransgw.New(cfg.MidtransServerKey, cfg.MidtransProduction),
		paymentuc.Config{ServerKey: cfg.MidtransServerKey, GatewayTimeout: cfg.GatewayTimeout},
		log.Named("payment"),
		d.Listeners...,
	)
	paymentH := paymenthandler.New(reconciler, log.Named("payment"))

	// Checkout wiring
	checkoutUC := checkoutuc.New(
		draftrepo.NewDraftStoreAdapter(draftrepo.NewDraftRepo(db)),
		cartUC,
		shippingUC,
		promoUC,
		orderuc.NewAssembler(promoUC, cfg.AdminFee),
		reconciler,
		log.Named("checkout"),
	)
	checkoutH := checkouthandler.New(checkoutUC)

	// Auth wiring
	loginUC := authuc.NewAdminLoginUsecase(
		adminrepo.NewAdminFinderAdapter(adminrepo.NewAdminRepo(db)),
		cfg.JWTSecret,
		cfg.JWTExpiresMinutes,
	)
	loginH := authhandler.NewAdminLoginHandler(loginUC)
	meH := authhandler.NewAdminMeHandler()

	// Public catalog
	api.Get("/products", productH.List)
	api.Get("/products/:id", productH.Get)

	// Cart + checkout are keyed by X-Cart-ID
	cart := api.Group("/cart", middleware.CartID())
	cart.Get("/", cartH.Get)
	cart.Post("/items", cartH.AddItem)
	cart.Patch("/items/:id", cartH.UpdateQuantity)
	cart.Delete("/items/:id", cartH.RemoveItem)
	cart.Delete("/", cartH.Clear)

	checkout := api.Group("/checkout", middleware.CartID())
	checkout.Get("/", checkoutH.Quote)
	checkout.Put("/customer", checkoutH.SetCustomer)
	checkout.Put("/shipping", checkoutH.SelectShipping)
	checkout.Post("/promo", checkoutH.ApplyPromo)
	checkout.Delete("/promo", checkoutH.RemovePromo)
	checkout.Post("/place", checkoutH.Place)
	checkout.Get("/attempts", checkoutH.Attempts)

	// Payments (notifications route must be registered before :orderId)
	payments := api.Group("/payments")
	payments.Post("/notifications", paymentH.Notification)
	payments.Get("/:orderId", paymentH.Get)
	payments.Post("/:orderId/outcome", paymentH.Outcome)
	payments.Post("/:orderId/recheck", paymentH.Recheck)

	// Public admin route
	api.Post("/admin/login", loginH.Handle)

	// Protected admin group
	admin := api.Group("/admin", middleware.NewJWTMiddleware(cfg.JWTSecret).Protect())
	admin.Get("/me", meH.Handle)
	admin.Get("/promos", promoH.List)
	admin.Put("/promos", promoH.Upsert)
	admin.Delete("/promos/:code", promoH.Deactivate)
	admin.Post("/products", productH.Create)
}
