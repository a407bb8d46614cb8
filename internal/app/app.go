package app

import (
	"pomona-backend/internal/auth"
	"pomona-backend/internal/authority"
	"pomona-backend/internal/batch"
	"pomona-backend/internal/certification"
	"pomona-backend/internal/config"
	"pomona-backend/internal/constants"
	"pomona-backend/internal/database"
	"pomona-backend/internal/health"
	"pomona-backend/internal/identity"
	"pomona-backend/internal/middleware"
	"pomona-backend/internal/reputation"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis handles so the entrypoint can verify
// connections before listening.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis); the client also backs the health marker and the batch
	// cooldown
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Health request marker (after session)
	app.Use(middleware.HealthMarker(rdb))

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	// --- Routes (no auth) ---
	healthHandlers := &health.Handlers{Rdb: rdb, DB: db, AdminKey: cfg.HealthAdminKey}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// --- Protected modules (auth required) ---
	if db != nil && rdb != nil {
		checker := constants.DefaultChecker()

		repService := &reputation.Service{DB: db}
		repHandlers := &reputation.Handlers{Service: repService}

		farmerGroup := app.Group("/api/v1/farmers", middleware.RequireAuth())
		farmerGroup.Post("/register", middleware.AuthorizeCapability(checker, constants.RegisterFarmer), repHandlers.RegisterFarmer)
		farmerGroup.Get("/:id", middleware.AuthorizeCapability(checker, constants.ViewData), repHandlers.GetProfile)
		farmerGroup.Get("/:id/tier", middleware.AuthorizeCapability(checker, constants.ViewData), repHandlers.GetTier)
		farmerGroup.Get("/:id/events", middleware.AuthorizeCapability(checker, constants.ViewData), repHandlers.GetEvents)

		repGroup := app.Group("/api/v1/reputation", middleware.RequireAuth())
		repGroup.Post("/record-event", middleware.AuthorizeCapability(checker, constants.RecordReputation), repHandlers.RecordEvent)

		certService := &certification.Service{
			DB:          db,
			Identity:    &identity.GormStore{DB: db},
			Authorities: authority.NewRegistry(nil),
			Reputation:  repService,
		}
		certHandlers := &certification.Handlers{Service: certService}

		farmerGroup.Get("/:id/trees", middleware.AuthorizeCapability(checker, constants.ViewData), certHandlers.FarmerTrees)
		farmerGroup.Get("/:id/certificates", middleware.AuthorizeCapability(checker, constants.ViewData), certHandlers.CertificatesByFarmer)

		certGroup := app.Group("/api/v1/certificates", middleware.RequireAuth())
		certGroup.Post("/upload", middleware.AuthorizeCapability(checker, constants.UploadCertificate), certHandlers.UploadCertificate)
		certGroup.Post("/request-verification", middleware.AuthorizeCapability(checker, constants.RequestVerification), certHandlers.RequestVerification)
		certGroup.Post("/verify", middleware.AuthorizeCapability(checker, constants.VerifyCertificate), certHandlers.VerifyCertificate)
		certGroup.Post("/revoke", middleware.AuthorizeCapability(checker, constants.RevokeCertificate), certHandlers.RevokeCertificate)
		certGroup.Get("/by-tree/:tree_id", middleware.AuthorizeCapability(checker, constants.ViewData), certHandlers.CertificatesByTree)

		transitionGroup := app.Group("/api/v1/transitions", middleware.RequireAuth())
		transitionGroup.Post("/start", middleware.AuthorizeCapability(checker, constants.StartTransition), certHandlers.StartTransition)
		transitionGroup.Post("/update-progress", middleware.AuthorizeCapability(checker, constants.UpdateTransition), certHandlers.UpdateProgress)
		transitionGroup.Post("/cancel", middleware.AuthorizeCapability(checker, constants.CancelTransition), certHandlers.CancelTransition)
		transitionGroup.Get("/by-tree/:tree_id", middleware.AuthorizeCapability(checker, constants.ViewData), certHandlers.TransitionsByTree)

		practiceGroup := app.Group("/api/v1/practices", middleware.RequireAuth())
		practiceGroup.Post("/log", middleware.AuthorizeCapability(checker, constants.LogPractice), certHandlers.LogPractice)
		practiceGroup.Post("/verify", middleware.AuthorizeCapability(checker, constants.VerifyPractice), certHandlers.VerifyPractice)
		practiceGroup.Get("/by-tree/:tree_id", middleware.AuthorizeCapability(checker, constants.ViewData), certHandlers.PracticeLogsByTree)

		trustGroup := app.Group("/api/v1/trust", middleware.RequireAuth())
		trustGroup.Get("/score/:tree_id", middleware.AuthorizeCapability(checker, constants.ViewData), certHandlers.TrustScore)
		trustGroup.Post("/batch-scores", middleware.AuthorizeCapability(checker, constants.ViewData), certHandlers.BatchTrustScores)
		trustGroup.Post("/batch-organic-check", middleware.AuthorizeCapability(checker, constants.ViewData), certHandlers.BatchOrganicCheck)

		gateway := &batch.Gateway{
			DB:                 db,
			Certs:              certService,
			Cooldown:           &batch.RedisCooldown{Client: rdb, Window: cfg.BatchCooldown},
			SizeLimit:          cfg.BatchSizeLimit,
			AuthoritySizeLimit: cfg.AuthorityBatchSize,
		}
		batchHandlers := &batch.Handlers{Gateway: gateway}

		batchGroup := app.Group("/api/v1/batch", middleware.RequireAuth(), middleware.AuthorizeCapability(checker, constants.BatchCertify))
		batchGroup.Post("/upload-certificates", batchHandlers.UploadCertificates)
		batchGroup.Post("/start-transitions", batchHandlers.StartTransitions)
		batchGroup.Post("/log-practices", batchHandlers.LogPractices)
		batchGroup.Post("/verify-certificates", batchHandlers.VerifyCertificates)
		batchGroup.Post("/revoke-certificates", batchHandlers.RevokeCertificates)
		batchGroup.Post("/update-transition-progress", batchHandlers.UpdateTransitionProgress)
	}

	// 404 for unknown routes
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})

	return app, db, rdb, nil
}
