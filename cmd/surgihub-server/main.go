package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rsmarcelinoo/surgical-patient-hub/internal/config"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/domain/attachment"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/domain/board"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/domain/comment"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/domain/consultation"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/domain/episode"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/domain/hospital"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/domain/patient"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/domain/surgery"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/platform/db"
	"github.com/rsmarcelinoo/surgical-patient-hub/internal/platform/middleware"
)

// surgerySourceAdapter adapts the surgery repository to the
// board.SurgerySource interface, avoiding a circular import between the
// surgery and board packages.
type surgerySourceAdapter struct {
	repo surgery.Repository
}

func (a *surgerySourceAdapter) PatientSurgeries(ctx context.Context, patientID uuid.UUID) ([]board.SurgeryInfo, error) {
	items, err := a.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return toSurgeryInfo(items), nil
}

func (a *surgerySourceAdapter) OverdueScheduled(ctx context.Context, now time.Time) ([]board.SurgeryInfo, error) {
	items, err := a.repo.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	return toSurgeryInfo(items), nil
}

func (a *surgerySourceAdapter) MarkPending(ctx context.Context, ids []uuid.UUID) error {
	return a.repo.MarkPending(ctx, ids)
}

func toSurgeryInfo(items []*surgery.Surgery) []board.SurgeryInfo {
	result := make([]board.SurgeryInfo, 0, len(items))
	for _, s := range items {
		result = append(result, board.SurgeryInfo{
			ID:            s.ID,
			PatientID:     s.PatientID,
			Status:        s.Status,
			ScheduledDate: s.ScheduledDate,
		})
	}
	return result
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "surgihub-server",
		Short: "Surgical patient workflow API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(sweepCmd())

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
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the overdue surgery sweep once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			boardRepo := board.NewRepoPG(pool)
			surgeryRepo := surgery.NewRepoPG(pool)
			syncer := board.NewSyncer(boardRepo, &surgerySourceAdapter{repo: surgeryRepo}, logger)

			moved := syncer.RunOverdueSweep(ctx, time.Now())
			fmt.Printf("Sweep complete, %d card(s) moved.\n", moved)
			return nil
		},
	}
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	// Repositories
	hospitalRepo := hospital.NewRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)
	episodeRepo := episode.NewRepoPG(pool)
	surgeryRepo := surgery.NewRepoPG(pool)
	consultationRepo := consultation.NewRepoPG(pool)
	attachmentRepo := attachment.NewRepoPG(pool)
	commentRepo := comment.NewRepoPG(pool)
	boardRepo := board.NewRepoPG(pool)

	// Services
	hospitalSvc := hospital.NewService(hospitalRepo)
	patientSvc := patient.NewService(patientRepo)
	episodeSvc := episode.NewService(episodeRepo)
	surgerySvc := surgery.NewService(surgeryRepo)
	consultationSvc := consultation.NewService(consultationRepo)
	attachmentSvc := attachment.NewService(attachmentRepo)
	commentSvc := comment.NewService(commentRepo)
	boardSvc := board.NewService(boardRepo, pool)

	// Status sync: surgery writes re-derive card placement, and the
	// board service re-derives after an override reset.
	syncer := board.NewSyncer(boardRepo, &surgerySourceAdapter{repo: surgeryRepo}, logger)
	surgerySvc.SetResyncer(syncer)
	boardSvc.SetSyncer(syncer)

	// Handlers
	hospital.NewHandler(hospitalSvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	episode.NewHandler(episodeSvc).RegisterRoutes(apiV1)
	surgery.NewHandler(surgerySvc).RegisterRoutes(apiV1)
	consultation.NewHandler(consultationSvc).RegisterRoutes(apiV1)
	attachment.NewHandler(attachmentSvc).RegisterRoutes(apiV1)
	comment.NewHandler(commentSvc).RegisterRoutes(apiV1)
	board.NewHandler(boardSvc).RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Overdue sweep at startup, best-effort by design.
	if cfg.SweepOnStart {
		go func() {
			moved := syncer.RunOverdueSweep(context.Background(), time.Now())
			logger.Info().Int("cards_moved", moved).Msg("startup sweep finished")
		}()
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
