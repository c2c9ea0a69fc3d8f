package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shopsphere/catalog-service/config"
	"github.com/shopsphere/catalog-service/internal/controller"
	"github.com/shopsphere/catalog-service/internal/infrastructure/database/mongodb"
	"github.com/shopsphere/catalog-service/internal/infrastructure/message-queue/kafka"
	"github.com/shopsphere/catalog-service/internal/infrastructure/tracing"
	"github.com/shopsphere/catalog-service/internal/middleware"
	"github.com/shopsphere/catalog-service/internal/repository"
	"github.com/shopsphere/catalog-service/internal/service"
	"github.com/shopsphere/catalog-service/pkg/response"
)

func main() {
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	config := config.CreateNewConfig()
	db, err := mongodb.ConnectToMongoDB(fmt.Sprintf("mongodb://%s:%s", config.MongoDBConfig.DBHost, config.MongoDBConfig.DBPort), config.MongoDBConfig.DBName)
	if err != nil {
		panic(err)
	}

	defer db.Client().Disconnect(context.Background())

	kafkaProducer := kafka.CreateKafkaProducer(config)
	kafkaReader := kafka.CreateKafkaReader(config)

	e := echo.New()

	traceProvider, err := tracing.InitTracing(config.TracingConfig.CollectorHost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracing")
	}

	if traceProvider != nil {
		defer func() {
			if err := traceProvider.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to shut down trace provider")
			}
		}()

		tracer := traceProvider.Tracer("catalog-service")

		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
				defer span.End()

				req := c.Request()
				c.SetRequest(req.WithContext(ctx))

				return next(c)
			}
		})
	}

	e.Use(middleware.Logger)

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	g := e.Group("/api/v1")

	IsLoggedIn := echomiddleware.JWTWithConfig(echomiddleware.JWTConfig{
		SigningKey: []byte(config.JWTSecret),
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			errorResponse := map[string]interface{}{
				"status":  "error",
				"message": "Invalid or expired JWT",
				"errors":  nil,
			}
			return c.JSON(http.StatusUnauthorized, errorResponse)
		},
	})

	mongoDBRepo := repository.CreateNewMongoDBRepository(db)
	svc := service.CreateProductService(mongoDBRepo, *config, kafkaReader, kafkaProducer)
	controller.CreateProductController(g, svc, IsLoggedIn)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	go svc.ConsumeEvent()

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", config.ServicePort)))
}
