package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/repair-service/internal/config"
	"github.com/psds-microservice/repair-service/internal/handler"
	"github.com/psds-microservice/repair-service/internal/kafka"
	"github.com/psds-microservice/repair-service/internal/orderid"
	"github.com/psds-microservice/repair-service/internal/router"
	"github.com/psds-microservice/repair-service/internal/service"
	"github.com/psds-microservice/repair-service/internal/store"
	"go.uber.org/zap"
)

// API — HTTP-приложение (режим api). Владеет хранилищем и продюсером Kafka.
type API struct {
	cfg      *config.Config
	log      *zap.Logger
	store    store.Store
	producer *kafka.Producer
	orders   *service.OrderService
	httpSrv  *http.Server
}

// NewAPI открывает хранилище, создаёт администратора по умолчанию (если его нет)
// и собирает HTTP-сервер. Запросы начинают приниматься только в Run.
func NewAPI(ctx context.Context, cfg *config.Config, log *zap.Logger) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	st, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	admins := service.NewAdminService(st, log.Named("admin"))
	admin, created, err := admins.Bootstrap(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	if !created {
		log.Info("admin present", zap.String("admin_id", admin.ID))
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicOrders, log.Named("kafka"))
	var events kafka.OrderEventProducer
	if producer.Enabled() {
		events = producer
	}
	orders := service.NewOrderService(st, orderid.NewGenerator(), events, log.Named("orders"))
	technicians := service.NewTechnicianService(st)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	h, err := router.New(router.Deps{
		Orders:      handler.NewOrderHandler(orders, log.Named("http")),
		Technicians: handler.NewTechnicianHandler(technicians, log.Named("http")),
		Admin:       handler.NewAdminHandler(admins, log.Named("http")),
		Store:       st,
		Log:         log.Named("http"),
	})
	if err != nil {
		producer.Close()
		st.Close()
		return nil, fmt.Errorf("router: %w", err)
	}

	return &API{
		cfg:      cfg,
		log:      log,
		store:    st,
		producer: producer,
		orders:   orders,
		httpSrv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Run запускает HTTP-сервер, блокируется до отмены ctx или ошибки сервера.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	a.log.Info("HTTP server listening",
		zap.String("addr", a.httpSrv.Addr),
		zap.String("store", a.cfg.StoreDriver),
		zap.String("swagger", base+"/swagger"),
		zap.String("api", base+"/api/"),
		zap.Bool("kafka", a.producer.Enabled()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			runErr = fmt.Errorf("http: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("http shutdown: %w", err)
	}
	a.orders.WaitEvents()
	if err := a.producer.Close(); err != nil {
		a.log.Warn("kafka close", zap.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("store close", zap.Error(err))
	}
	a.log.Info("stopped")
	return runErr
}
