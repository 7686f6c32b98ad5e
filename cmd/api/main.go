package main

import (
	"context"
	"fmt"
	"log"

	common_api "github.com/syffus01/BioGED/internal/common/api"
	"github.com/syffus01/BioGED/internal/config"
	"github.com/syffus01/BioGED/internal/database"
	"github.com/syffus01/BioGED/internal/features/approval"
	"github.com/syffus01/BioGED/internal/features/audit"
	"github.com/syffus01/BioGED/internal/features/auth"
	"github.com/syffus01/BioGED/internal/features/dashboard"
	"github.com/syffus01/BioGED/internal/features/doctype"
	"github.com/syffus01/BioGED/internal/features/document"
	"github.com/syffus01/BioGED/internal/features/search"
	"github.com/syffus01/BioGED/internal/features/system"
	"github.com/syffus01/BioGED/internal/features/user"
	"github.com/syffus01/BioGED/internal/logger"
	"github.com/syffus01/BioGED/internal/middleware"
	"github.com/syffus01/BioGED/pkg/utils"

	_ "github.com/syffus01/BioGED/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             64 << 20, // multipart envelope headroom above the 50MB document cap
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// @title           BioGED EDMS API
// @version         1.0
// @description     Document management backend for regulated-industry record keeping.

// @host            localhost:8001
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			user.NewUserRepository,
			document.NewDocumentRepository,
			audit.NewAuditRepository,

			// Services
			audit.NewAuditService,
			auth.NewAuthService,
			document.NewDocumentService,
			approval.NewApprovalService,
			dashboard.NewDashboardService,
			search.NewSearchService,

			// Interface adapters
			func(r user.UserRepository) audit.UserFinder { return r },

			// Controllers
			auth.NewAuthController,
			document.NewDocumentController,
			approval.NewApprovalController,
			audit.NewAuditController,
			dashboard.NewDashboardController,
			search.NewSearchController,

			// API routes
			AsRoute(auth.NewAuthApi),
			AsRoute(document.NewDocumentApi),
			AsRoute(approval.NewApprovalApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(search.NewSearchApi),
			AsRoute(doctype.NewDocTypeApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			StartServer,
		),
	)

	app.Run()
}
