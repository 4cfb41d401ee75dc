package infra

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/yshebel/customerhub/internal/auth"
	"github.com/yshebel/customerhub/internal/config"
	"github.com/yshebel/customerhub/internal/handlers"
	"github.com/yshebel/customerhub/internal/middleware"
	"github.com/yshebel/customerhub/internal/mirror"
	"github.com/yshebel/customerhub/internal/model"
	"github.com/yshebel/customerhub/internal/repository"
	"github.com/yshebel/customerhub/internal/service"
	"github.com/yshebel/customerhub/internal/validation"
	"github.com/yshebel/customerhub/pkg/db/transactor"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/yshebel/customerhub/internal/errors"
)

// Router assembles the whole HTTP application on top of the storage
// handles built at startup. Exactly one of pgPool/mongoDB is used
// depending on the configured storage driver
func Router(cfg config.Config, pgPool *pgxpool.Pool, mongoDB *mongo.Database, redisClient *redis.Client, logger *logrus.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler(logger)

	validator, err := validation.Echo()
	if err != nil {
		return nil, err
	}
	e.Validator = validator

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CorsOrigins}))

	// repositories per configured driver
	var (
		customerRps repository.CustomerRepository
		userRps     repository.UserRepository
		trx         transactor.Transactor
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pgTrx := transactor.NewPgxTransactor(pgPool)
		trx = pgTrx
		customerRps = repository.NewPostgresCustomerRepository(pgPool)
		userRps = repository.NewPostgresUserRepository(pgTrx)
	case config.DriverMongo:
		trx = transactor.NewPassthrough()
		customerRps = repository.NewMongoCustomerRepository(mongoDB)
		userRps = repository.NewMongoUserRepository(mongoDB)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	// secondary store mirror
	m := mirror.NewDisabled()
	if redisClient != nil {
		m = mirror.NewRedis(redisClient, logger)
	}

	// extra functionality
	tokenIssuer := auth.NewTokenIssuer(cfg.AuthCfg.Issuer, cfg.AuthCfg.TimeToLive, []byte(cfg.AuthCfg.SecretKey))
	tokenValidator := auth.NewTokenValidator([]byte(cfg.AuthCfg.SecretKey))

	// services
	customerSvc := service.NewCustomerService(customerRps, m)
	userSvc := service.NewUserService(trx, userRps, m)
	authSvc := service.NewAuthService(tokenIssuer, userRps)

	// handlers
	customerHandler := handlers.NewCustomerHTTPHandler(customerSvc)
	userHandler := handlers.NewUserHTTPHandler(userSvc)
	authHandler := handlers.NewAuthHTTPHandler(authSvc)
	healthHandler := handlers.NewHealthHTTPHandler()

	e.GET("/health", healthHandler.Health)

	api := e.Group("/api")

	authAPI := api.Group("/auth")
	authAPI.POST("/login", authHandler.Login)

	customersAPI := api.Group("/customers", middleware.Authorize(tokenValidator))
	customersAPI.GET("", customerHandler.GetAll)
	customersAPI.GET("/:id", customerHandler.Get)
	customersAPI.POST("", customerHandler.Post)
	customersAPI.PUT("/:id", customerHandler.Put)
	customersAPI.DELETE("/:id", customerHandler.DeleteByID)

	usersAPI := api.Group("/users", middleware.Authorize(tokenValidator, model.RoleAdmin))
	usersAPI.GET("", userHandler.GetAll)
	usersAPI.GET("/:id", userHandler.Get)
	usersAPI.POST("", userHandler.Post)
	usersAPI.PUT("/:id", userHandler.Put)
	usersAPI.DELETE("/:id", userHandler.DeleteByID)

	return e, nil
}

// httpErrorHandler maps domain errors to status codes. Anything not
// explicitly recognized is logged with detail and returned to the
// caller as generic 500 without internals
func httpErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			httpErr      *echo.HTTPError
			payloadErr   *validation.PayloadError
			validErr     *apperrors.ValidationErr
			duplicateErr *apperrors.DuplicateErr
			notFoundErr  *apperrors.NotFoundErr
			authErr      *apperrors.AuthErr
		)

		switch {
		case errors.As(err, &httpErr):
			err = c.JSON(httpErr.Code, echo.Map{"message": fmt.Sprintf("%v", httpErr.Message)})
		case errors.As(err, &payloadErr):
			err = c.JSON(http.StatusBadRequest, payloadErr)
		case errors.As(err, &validErr):
			err = c.JSON(http.StatusBadRequest, validErr)
		case errors.As(err, &duplicateErr):
			err = c.JSON(http.StatusBadRequest, echo.Map{"message": duplicateErr.Error()})
		case errors.As(err, &notFoundErr):
			err = c.JSON(http.StatusNotFound, echo.Map{"message": notFoundErr.Error()})
		case errors.As(err, &authErr):
			err = c.JSON(http.StatusUnauthorized, echo.Map{"message": authErr.Error()})
		default:
			logger.Errorf("unexpected error on %s %s - %v", c.Request().Method, c.Request().URL.Path, err)
			err = c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal server error"})
		}

		if err != nil {
			logger.Errorf("failed to write error response - %v", err)
		}
	}
}
