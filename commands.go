package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rental-booking/pkg/api"
	"rental-booking/pkg/catalog"
	"rental-booking/pkg/clients/crm"
	"rental-booking/pkg/config"
	"rental-booking/pkg/logging"
	"rental-booking/pkg/middleware"
	"rental-booking/pkg/services"
	"rental-booking/pkg/tui"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 15 * time.Second
)

// app holds everything built from the configuration
type app struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	booking *services.BookingService
	store   *services.SessionStore
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *config.Config) (*app, error) {
	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}

	var crmClient crm.Client
	if cfg.CRMBaseURL != "" {
		crmClient = crm.NewClient(cfg.CRMBaseURL, cfg.CRMTimeout)
	} else {
		logging.Warn("No CRM base URL configured, leads will not be registered")
	}

	store := services.NewSessionStore(cfg.SessionTTL)
	leads := services.NewLeadSubmissionService(crmClient, cat)

	return &app{
		cfg:     cfg,
		catalog: cat,
		store:   store,
		booking: services.NewBookingService(store, cat, leads, cfg.WhatsAppPhone),
	}, nil
}

// waitForLeads gives in-flight CRM registrations a chance to finish
func (a *app) waitForLeads() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.CRMTimeout+time.Second)
	defer cancel()
	if err := a.booking.Wait(ctx); err != nil {
		logging.Warn("CRM registrations still running at exit", zap.Error(err))
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server exposing the booking wizard API.

The server listens on the configured port and shuts down gracefully on
SIGINT or SIGTERM, waiting for pending CRM registrations.`,
		Example: `  # Start with defaults (port 8080, embedded catalog)
  rental-booking serve

  # Start with a config file
  rental-booking serve --config /etc/rental-booking.yaml

  # Override settings from the environment
  RENTAL_PORT=9000 RENTAL_CRM_BASE_URL=https://crm.example.com rental-booking serve`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Initialize(cfg.LogLevel, cfg.Env); err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	defer logging.Sync()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	if err := api.RegisterValidators(); err != nil {
		return fmt.Errorf("error registering validators: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.store.RunSweeper(ctx, sweepInterval)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	case <-ctx.Done():
	}

	logging.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Error shutting down server", zap.Error(err))
	}

	a.waitForLeads()
	logging.Info("Server stopped")
	return nil
}

func newRouter(a *app) *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(a.cfg.AllowedOrigins...))

	api.NewHandlers(a.booking).RegisterRoutes(router)
	api.RegisterMetrics(router, a.cfg.MetricsUsername, a.cfg.MetricsPassword)
	return router
}

func newWizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Run the booking wizard in the terminal",
		Long: `Run the booking wizard in the terminal.

The terminal wizard uses the same CRM and WhatsApp settings as the
server. Submitting opens the WhatsApp link in the system browser.`,
		RunE: runWizard,
	}
}

func runWizard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Log output would draw over the alternate screen
	logging.SetLogger(zap.NewNop())

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.waitForLeads()

	return tui.Run(cmd.Context(), a.booking, tui.BrowserOpener{})
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [country]",
		Short: "Print the rental countries or a country's stations",
		Example: `  # List countries
  rental-booking catalog

  # List the stations of France
  rental-booking catalog FR`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.CatalogDir)
			if err != nil {
				return fmt.Errorf("error loading catalog: %w", err)
			}
			if len(args) == 0 {
				printCountries(cmd.OutOrStdout(), cat)
				return nil
			}
			return printStations(cmd.OutOrStdout(), cat, args[0])
		},
	}
}

func printCountries(w io.Writer, cat *catalog.Catalog) {
	for _, c := range cat.Countries() {
		fmt.Fprintf(w, "%-4s %s\n", c.Code, c.Name)
	}
}

func printStations(w io.Writer, cat *catalog.Catalog, code string) error {
	country, ok := cat.Country(code)
	if !ok {
		return fmt.Errorf("unknown country %q", code)
	}
	fmt.Fprintf(w, "%s (%s)\n", country.Name, country.Code)
	for _, s := range cat.StationOptions(code) {
		line := fmt.Sprintf("  %-6s %s", s.Code, s.DisplayName)
		if s.Restricted {
			line += "  [restreint]"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
