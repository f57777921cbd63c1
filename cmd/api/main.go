package main

import (
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/openfleet/shipping-gateway/internal/auth"
	"github.com/openfleet/shipping-gateway/internal/cache"
	"github.com/openfleet/shipping-gateway/internal/config"
	"github.com/openfleet/shipping-gateway/internal/events"
	"github.com/openfleet/shipping-gateway/internal/handlers"
	"github.com/openfleet/shipping-gateway/internal/queue"
	"github.com/openfleet/shipping-gateway/internal/repository"
	"github.com/openfleet/shipping-gateway/internal/services"
	xhttp "github.com/openfleet/shipping-gateway/pkg/http"
	"github.com/openfleet/shipping-gateway/pkg/logger"
	"github.com/openfleet/shipping-gateway/pkg/pg"
	"github.com/openfleet/shipping-gateway/pkg/prom"
	"github.com/openfleet/shipping-gateway/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	notificationQueue, err := queue.NewQueue(redisAdap, queue.QueueConfig{
		Name:              config.Get().QueueName,
		ConsumerGroup:     config.Get().QueueConsumerGroup,
		ConsumerName:      config.Get().QueueConsumerName,
		MaxRetries:        config.Get().QueueMaxRetries,
		VisibilityTimeout: config.Get().QueueVisibilityTimeout,
		PollInterval:      config.Get().QueuePollInterval,
		BatchSize:         config.Get().QueueBatchSize,
		MaxLen:            config.Get().QueueMaxLen,
		EnableDLQ:         config.Get().QueueEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating queue", "error", err)
	}

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}

	go func() {
		prom.ListenAndServer(":9100", "/metrics")
	}()

	shipmentRepo := repository.NewShipmentRepository(db)
	historyRepo := repository.NewStatusHistoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	tokens := auth.NewManager(config.Get().JWTSecret, config.Get().JWTExpiry)
	viewCache := cache.NewShipmentCache(redisAdap, config.Get().CacheTTL)
	publisher := events.NewPublisher(redisAdap)

	// services
	userService := services.NewUserService(userRepo, tokens, notificationQueue)
	shipmentService := services.NewShipmentService(shipmentRepo, historyRepo, userRepo, driverRepo, routeRepo, viewCache, publisher, notificationQueue)
	assignmentService := services.NewAssignmentService(assignmentRepo, shipmentRepo, driverRepo, routeRepo, userRepo, viewCache, publisher, notificationQueue)
	driverService := services.NewDriverService(driverRepo)
	routeService := services.NewRouteService(routeRepo)
	healthService := services.NewHealthService()

	// v1 handlers
	authMiddleware := handlers.NewAuthMiddleware(tokens)
	userHandler := handlers.NewUserHandler(userService)
	shipmentHandler := handlers.NewShipmentHandler(shipmentService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	driverHandler := handlers.NewDriverHandler(driverService)
	routeHandler := handlers.NewRouteHandler(routeService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterUserRoutes(g, userHandler, authMiddleware)
	handlers.RegisterShipmentRoutes(g, shipmentHandler, authMiddleware)
	handlers.RegisterAssignmentRoutes(g, assignmentHandler, authMiddleware)
	handlers.RegisterDriverRoutes(g, driverHandler, authMiddleware)
	handlers.RegisterRouteRoutes(g, routeHandler, authMiddleware)
	handlers.RegisterHealthRoutes(g, healthHandler)

	// Create new server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Kill)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
