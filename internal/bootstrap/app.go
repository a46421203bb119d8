package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"cloud.google.com/go/datastore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/olivere/elastic/v7"

	"github.com/structsheet/structsheet/internal/config"
	"github.com/structsheet/structsheet/internal/handler"
	"github.com/structsheet/structsheet/internal/logger"
)

type App struct {
	Echo *echo.Echo
	DB   *sql.DB
	ES   *elastic.Client
	DS   *datastore.Client
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Each backend is optional; its export endpoints answer 503 when the
	// matching client is absent.
	if config.DefaultEnvConfig.DatabaseConfigured() {
		db, err := sql.Open("postgres", config.DefaultEnvConfig.PostgresDSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to reach database: %w", err)
		}
		a.DB = db
	}

	if url := config.DefaultEnvConfig.ELASTIC_URL; url != "" {
		es, err := elastic.NewClient(elastic.SetURL(url), elastic.SetSniff(false))
		if err != nil {
			logger.ErrorLog(ctx, "failed to initialize Elasticsearch client: %v", err)
		} else {
			a.ES = es
		}
	}

	if project := config.DefaultEnvConfig.GCP_PROJECT_ID; project != "" {
		ds, err := datastore.NewClient(ctx, project)
		if err != nil {
			logger.ErrorLog(ctx, "failed to initialize Datastore client: %v", err)
		} else {
			a.DS = ds
		}
	}

	exportHandler := handler.NewExportHandler(a.DB, a.ES, a.DS)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(exportHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(exportHandler *handler.ExportHandler) {
	exportGroup := a.Echo.Group("/export")
	exportGroup.GET("/products", exportHandler.ExportProductsHandler)
	exportGroup.GET("/products/yaml", exportHandler.ExportProductsFromYAMLHandler)
	exportGroup.GET("/orders", exportHandler.ExportOrdersHandler)
	exportGroup.GET("/search/:index", exportHandler.ExportSearchHandler)
	exportGroup.GET("/entities", exportHandler.ExportEntitiesHandler)
}

func (a *App) Run() error {
	if a.DB != nil {
		defer a.DB.Close()
	}
	if a.DS != nil {
		defer a.DS.Close()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
