package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/alerts"
	alertsctrl "github.com/omkar-009/stockflow-inventory/internal/alerts/controller"
	catalogrepo "github.com/omkar-009/stockflow-inventory/internal/catalog/repository"
	"github.com/omkar-009/stockflow-inventory/internal/config"
	"github.com/omkar-009/stockflow-inventory/internal/fulfillment"
	fulfillmentctrl "github.com/omkar-009/stockflow-inventory/internal/fulfillment/controller"
	"github.com/omkar-009/stockflow-inventory/internal/infrastructure/logger"
	"github.com/omkar-009/stockflow-inventory/internal/infrastructure/mysql"
	"github.com/omkar-009/stockflow-inventory/internal/infrastructure/rabbitmq"
	"github.com/omkar-009/stockflow-inventory/internal/ledger"
	ledgerctrl "github.com/omkar-009/stockflow-inventory/internal/ledger/controller"
	ledgerrepo "github.com/omkar-009/stockflow-inventory/internal/ledger/repository"
	"github.com/omkar-009/stockflow-inventory/internal/server"
	warehouserepo "github.com/omkar-009/stockflow-inventory/internal/warehouse/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	var sink fulfillment.NotificationSink
	if cfg.AMQP.Enabled {
		publisher, err := rabbitmq.NewPublisher(cfg.AMQP.Host, cfg.AMQP.Port, cfg.AMQP.User, cfg.AMQP.Password)
		if err != nil {
			zapLogger.Fatal("connecting to rabbitmq", zap.Error(err))
		}
		defer publisher.Close()
		zapLogger.Info("rabbitmq connected")
		sink = publisher
	} else {
		sink = alerts.NewLogSink(zapLogger)
	}

	store := ledger.NewModule(db, cfg, zapLogger)
	engine := alerts.NewModule(db, cfg, zapLogger)
	coordinator := fulfillment.NewModule(store, engine, sink, cfg, zapLogger)
	defer coordinator.Close()

	productRepo := catalogrepo.NewMySQLProductRepository(db)
	warehouseRepo := warehouserepo.NewMySQLWarehouseRepository(db)
	stockRepo := ledgerrepo.NewMySQLStockRepository(db)

	fulfillmentCtrl := fulfillmentctrl.NewFulfillmentController(coordinator, zapLogger)
	stockCtrl := ledgerctrl.NewStockController(store, stockRepo, productRepo, warehouseRepo, zapLogger)
	alertsCtrl := alertsctrl.NewAlertsController(engine, productRepo, zapLogger)

	router := server.NewRouter(fulfillmentCtrl, stockCtrl, alertsCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
