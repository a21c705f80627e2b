package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"paydesk/internal/application/billing/contractgateway"
	"paydesk/internal/application/billing/usecases"
	infraauth "paydesk/internal/infrastructure/auth"
	"paydesk/internal/infrastructure/cache"
	"paydesk/internal/infrastructure/config"
	"paydesk/internal/infrastructure/crypto"
	"paydesk/internal/infrastructure/database"
	"paydesk/internal/infrastructure/gateway/payman"
	"paydesk/internal/infrastructure/migration"
	"paydesk/internal/infrastructure/repository"
	httpRouter "paydesk/internal/interfaces/http"
	"paydesk/internal/interfaces/http/handlers"
	"paydesk/internal/interfaces/http/middleware"
	"paydesk/internal/shared/biztime"
	"paydesk/internal/shared/db"
	"paydesk/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Paydesk HTTP server with specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	ginMode := mapEnvToGinMode(env)

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = ginMode

	if err := logger.Init(&cfg.Logger, ginMode == gin.DebugMode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server",
		"environment", env,
		"auto_migrate", autoMigrate)

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			logger.Warn("auto-migration is enabled in production environment - this is not recommended!")
		}
		migrationManager := migration.NewManager(env)
		if err := migrationManager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			logger.Fatal("auto-migration failed", "error", err)
		}
	}

	log := logger.NewLogger()
	gormDB := database.Get()
	txManager := db.NewTransactionManager(gormDB)

	pmRepo := repository.NewPaymentMethodRepository(gormDB, log.Named("repository.payment_method"))
	eventRepo := repository.NewBillingEventRepository(gormDB, log.Named("repository.billing_event"))
	subRepo := repository.NewSubscriptionRepository(gormDB, log.Named("repository.subscription"))

	cipher, err := crypto.NewSignatureCipher(cfg.Cipher.MasterSecret)
	if err != nil {
		logger.Fatal("failed to initialize signature cipher", "error", err)
	}

	var gateway contractgateway.Gateway
	var urls contractgateway.SigningURLBuilder
	if cfg.Payman.UseFakeGateway {
		logger.Warn("using fake payment gateway, contracts are not real")
		fake := contractgateway.NewFakeGateway()
		gateway = fake
		urls = fake
	} else {
		client := payman.New(cfg.Payman)
		gateway = client
		urls = client
	}

	var bankCache usecases.BankListCache
	if cfg.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unavailable, bank list cache disabled", "error", err)
		} else {
			bankCache = cache.NewBankListCache(
				redisClient,
				time.Duration(cfg.Payman.BankListTTLMins)*time.Minute,
				log.Named("cache.bank_list"),
			)
			defer redisClient.Close()
		}
	}

	createUC := usecases.NewCreateContractUseCase(
		pmRepo, eventRepo, gateway, urls, bankCache, txManager,
		log.Named("usecase.create_contract"),
		usecases.ContractConfig{CallbackURL: cfg.Payman.CallbackURL},
	)
	verifyUC := usecases.NewVerifyContractUseCase(
		pmRepo, eventRepo, gateway, cipher, txManager,
		log.Named("usecase.verify_contract"),
	)
	cancelUC := usecases.NewCancelContractUseCase(
		pmRepo, eventRepo, subRepo, gateway, cipher, txManager,
		log.Named("usecase.cancel_contract"),
	)
	callbackUC := usecases.NewContractCallbackUseCase(
		pmRepo, eventRepo, gateway, cipher, txManager,
		log.Named("usecase.contract_callback"),
	)
	recoverUC := usecases.NewRecoverContractUseCase(
		pmRepo, eventRepo, gateway, cipher, txManager,
		log.Named("usecase.recover_contract"),
	)
	setDefaultUC := usecases.NewSetDefaultPaymentMethodUseCase(
		pmRepo, eventRepo, txManager,
		log.Named("usecase.set_default"),
	)
	listUC := usecases.NewListPaymentMethodsUseCase(
		pmRepo, subRepo,
		log.Named("usecase.list_payment_methods"),
	)

	jwtService := infraauth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	cookieSigner := infraauth.NewContractCookieSigner(cfg.Auth.JWT.Secret, cfg.Payman.ContractExpHours)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log.Named("middleware.auth"))

	pmHandler := handlers.NewPaymentMethodHandler(
		createUC, verifyUC, cancelUC, recoverUC, setDefaultUC, listUC,
		cookieSigner, cfg.Auth.Cookie,
		log.Named("handler.payment_method"),
	)
	cbHandler := handlers.NewContractCallbackHandler(
		callbackUC, cookieSigner, cfg.Auth.Cookie,
		log.Named("handler.contract_callback"),
	)

	router := httpRouter.NewRouter(pmHandler, cbHandler, authMiddleware, cfg, log.Named("http"))
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
