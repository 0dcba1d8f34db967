package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orenshv/flightsdb/api"
	"github.com/orenshv/flightsdb/config"
	"github.com/orenshv/flightsdb/internal/repository"
	"github.com/orenshv/flightsdb/internal/service/accounts"
	"github.com/orenshv/flightsdb/internal/service/booking"
	"github.com/orenshv/flightsdb/internal/service/flights"
)

// NewLogger builds the process logger from config.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = level
	}
	return zapCfg.Build()
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
	repo *repository.Repository,
	flightSvc flights.FlightUseCase,
	bookingSvc booking.BookingUseCase,
	accountSvc accounts.AccountUseCase,
) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(repo, flightSvc, bookingSvc, accountSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newRouter(
	repo *repository.Repository,
	flightSvc flights.FlightUseCase,
	bookingSvc booking.BookingUseCase,
	accountSvc accounts.AccountUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	api.NewFlightHandler(flightSvc).Register(v1.Group("/flights"))
	api.NewTicketHandler(bookingSvc).Register(v1.Group("/tickets"))
	api.NewAccountHandler(accountSvc).Register(v1.Group("/accounts"))
	api.NewCountryHandler(repo).Register(v1.Group("/countries"))
	api.NewEntityHandler(repo).Register(v1.Group("/entities"))

	return router
}
