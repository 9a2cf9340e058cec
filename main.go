package main

import (
	"context"
	"fmt"
	"log"

	"smsnotify/internal/config"
	"smsnotify/internal/gateway"
	"smsnotify/internal/handler"
	"smsnotify/internal/mpostgres"
	"smsnotify/internal/pkg/gpostgresql"
	"smsnotify/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/useinsider/go-pkg/inslogger"
	"github.com/useinsider/go-pkg/insredis"
)

// @title SMS Notifications API
// @version 1.0
// @description Transactional SMS notification dispatch for storefront commerce events
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ctx := context.Background()
	cfg := config.ReadEnvironment(ctx, &config.AppEnv)
	logger := inslogger.NewLogger(inslogger.Debug)

	pool, err := gpostgresql.NewDBConnection(ctx, &cfg.Database, logger)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer gpostgresql.Close(ctx, pool, logger)

	redisClient := insredis.Init(insredis.Config{
		RedisHost: fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
	})

	subscriptionService := mpostgres.NewSubscriptionService(pool)
	customerService := mpostgres.NewCustomerService(pool)

	settings := gateway.SettingsFromConfig(cfg.Gateway)
	messageSender := service.NewMessageSender(subscriptionService, customerService, settings, cfg.Templates, logger)
	subscriptionManager := service.NewSubscriptionManager(subscriptionService, logger)

	dispatcher := service.NewDispatcher(logger, cfg.Gateway.Timeout, 64)
	if err := dispatcher.Start(); err != nil {
		log.Fatalf("Error starting dispatcher: %v", err)
	}
	defer dispatcher.Stop()

	preferencesHandler := handler.NewPreferencesHandler(
		subscriptionService,
		customerService,
		subscriptionManager,
		messageSender,
		dispatcher,
		cfg.Gateway,
		logger,
		redisClient,
	)
	eventHandler := handler.NewEventHandler(messageSender, dispatcher, logger)

	router := gin.Default()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.POST("/notifications/preferences", preferencesHandler.ManagePreferences)
		api.GET("/notifications/preferences/:customerId", preferencesHandler.GetPreferences)
		api.POST("/events/order", eventHandler.OrderPersisted)
		api.POST("/events/shipment", eventHandler.ShipmentPersisted)
	}

	if err := router.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatalf("Error running server: %v", err)
	}
}
