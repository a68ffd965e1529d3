package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/caredesk/caredesk/internal/config"
	"github.com/caredesk/caredesk/internal/domain/bed"
	"github.com/caredesk/caredesk/internal/domain/billing"
	"github.com/caredesk/caredesk/internal/domain/board"
	"github.com/caredesk/caredesk/internal/domain/crm"
	"github.com/caredesk/caredesk/internal/domain/messaging"
	"github.com/caredesk/caredesk/internal/domain/page"
	"github.com/caredesk/caredesk/internal/domain/patient"
	"github.com/caredesk/caredesk/internal/domain/scheduling"
	"github.com/caredesk/caredesk/internal/domain/staff"
	"github.com/caredesk/caredesk/internal/platform/auth"
	"github.com/caredesk/caredesk/internal/platform/db"
	"github.com/caredesk/caredesk/internal/platform/middleware"
	"github.com/caredesk/caredesk/internal/platform/reporting"
	"github.com/caredesk/caredesk/internal/platform/sandbox"
	"github.com/caredesk/caredesk/internal/platform/snapshot"
	"github.com/caredesk/caredesk/internal/platform/webhook"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "caredesk-server",
		Short: "CareDesk admin API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Rollback last migration (not supported)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("WARNING: migrate down is destructive and not supported by the built-in runner.")
			fmt.Println("Restore the schema from a backup, or write a forward migration that undoes the change.")
			return nil
		},
	})

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			fmt.Printf("Creating tenant schema: tenant_%s\n", name)
			if err := db.CreateTenantSchema(ctx, pool, name, ""); err != nil {
				return err
			}
			fmt.Println("Tenant created. Run migrations with: caredesk-server migrate up --schema tenant_" + name)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Tenant identifier (alphanumeric)")

	cmd.AddCommand(createCmd)
	return cmd
}

// repositories is the full persistence surface behind the domain services,
// built once per process for whichever storage driver is configured.
type repositories struct {
	patients  patient.Repository
	staff     staff.Repository
	beds      bed.Repository
	appts     scheduling.Repository
	customers crm.CustomerRepository
	deals     crm.DealRepository
	invoices  billing.Repository
	messages  messaging.Repository
	boards    board.BoardRepository
	cards     board.CardRepository
	pages     page.Repository
}

func newPGRepositories(pool *pgxpool.Pool) repositories {
	return repositories{
		patients:  patient.NewRepoPG(pool),
		staff:     staff.NewRepoPG(pool),
		beds:      bed.NewRepoPG(pool),
		appts:     scheduling.NewRepoPG(pool),
		customers: crm.NewCustomerRepoPG(pool),
		deals:     crm.NewDealRepoPG(pool),
		invoices:  billing.NewRepoPG(pool),
		messages:  messaging.NewRepoPG(pool),
		boards:    board.NewBoardRepoPG(pool),
		cards:     board.NewCardRepoPG(pool),
		pages:     page.NewRepoPG(pool),
	}
}

func newMemRepositories(cfg *config.Config, logger zerolog.Logger) (repositories, error) {
	repos := repositories{
		patients:  patient.NewRepoMem(),
		staff:     staff.NewRepoMem(),
		beds:      bed.NewRepoMem(),
		appts:     scheduling.NewRepoMem(),
		customers: crm.NewCustomerRepoMem(),
		deals:     crm.NewDealRepoMem(),
		invoices:  billing.NewRepoMem(),
		messages:  messaging.NewRepoMem(),
		boards:    board.NewBoardRepoMem(),
		cards:     board.NewCardRepoMem(),
		pages:     page.NewRepoMem(),
	}
	if cfg.SnapshotDir != "" {
		snaps, err := snapshot.NewStore(cfg.SnapshotDir)
		if err != nil {
			return repositories{}, fmt.Errorf("snapshot store: %w", err)
		}
		repos.invoices = billing.NewRepoMemWithSnapshot(snaps, logger)
		logger.Info().Str("dir", cfg.SnapshotDir).Msg("invoice snapshots enabled")
	}
	return repos, nil
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	var pool *pgxpool.Pool
	var repos repositories
	if cfg.UseMemoryStore() {
		repos, err = newMemRepositories(cfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build memory stores")
		}
		logger.Info().Msg("running with in-memory storage")
	} else {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		repos = newPGRepositories(pool)
		logger.Info().Msg("connected to database")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BodyLimit("2M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
		}))
	}

	if pool != nil {
		e.Use(db.TenantMiddleware(pool, cfg.DefaultTenant))
		e.GET("/health/db", db.HealthHandler(pool))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Webhook manager. Domain services emit through the Emitter so they
	// never see delivery details.
	var events webhook.Emitter
	if cfg.WebhookEnabled {
		manager := webhook.NewManager(webhook.NewMemoryStore())
		events = webhook.NewManagerEmitter(manager, logger, cfg.DefaultTenant)
		webhook.NewHandler(manager).RegisterRoutes(apiV1.Group("/webhooks", auth.RequireRole("admin")))
	} else {
		events = webhook.NewNopEmitter(logger)
	}

	// Domain services
	patientSvc := patient.NewService(repos.patients)
	staffSvc := staff.NewService(repos.staff)
	bedSvc := bed.NewService(repos.beds)
	schedSvc := scheduling.NewService(repos.appts)
	crmSvc := crm.NewService(repos.customers, repos.deals)
	billingSvc := billing.NewService(repos.invoices, events)
	messagingSvc := messaging.NewService(repos.messages)
	boardSvc := board.NewService(repos.boards, repos.cards, events, logger)
	pageSvc := page.NewService(repos.pages)

	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	staff.NewHandler(staffSvc).RegisterRoutes(apiV1)
	bed.NewHandler(bedSvc).RegisterRoutes(apiV1)
	scheduling.NewHandler(schedSvc).RegisterRoutes(apiV1)
	crm.NewHandler(crmSvc).RegisterRoutes(apiV1)
	billing.NewHandler(billingSvc).RegisterRoutes(apiV1)
	messaging.NewHandler(messagingSvc).RegisterRoutes(apiV1)
	board.NewHandler(boardSvc).RegisterRoutes(apiV1)
	page.NewHandler(pageSvc).RegisterRoutes(apiV1)

	reportingSvc := reporting.NewService(bedSvc, schedSvc, billingSvc, messagingSvc)
	reporting.NewHandler(reportingSvc).RegisterRoutes(apiV1)

	if cfg.UseMemoryStore() && cfg.SeedDemoData {
		_, err := sandbox.Seed(ctx, sandbox.Services{
			Patients:     patientSvc,
			Staff:        staffSvc,
			Beds:         bedSvc,
			Appointments: schedSvc,
			CRM:          crmSvc,
			Invoices:     billingSvc,
			Messages:     messagingSvc,
			Boards:       boardSvc,
			Pages:        pageSvc,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("demo data seeding failed")
		}
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
