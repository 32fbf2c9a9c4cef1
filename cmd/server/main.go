package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/beatworks/beatotheque/internal/blob"
	"github.com/beatworks/beatotheque/internal/config"
	"github.com/beatworks/beatotheque/internal/handlers"
	"github.com/beatworks/beatotheque/internal/logging"
	authmw "github.com/beatworks/beatotheque/internal/middleware/auth"
	loggingmw "github.com/beatworks/beatotheque/internal/middleware/logging"
	"github.com/beatworks/beatotheque/internal/ownership"
	"github.com/beatworks/beatotheque/internal/search"
	"github.com/beatworks/beatotheque/internal/token"
	httpserver "github.com/beatworks/beatotheque/internal/transport/http"
	"github.com/beatworks/beatotheque/internal/validate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	tokens := token.NewService([]byte(cfg.JWT_SECRET), cfg.TOKEN_TTL)
	owners := &ownership.Resolver{DB: db}

	var blobs *blob.Store
	if cfg.S3_ENDPOINT != "" && cfg.S3_BUCKET != "" {
		blobs, err = blob.NewStore(context.Background(), cfg)
		if err != nil {
			log.Fatalf("blob storage error: %v", err)
		}
	} else {
		logger.Warn("no S3 bucket configured, uploads disabled")
	}

	var index *search.Index
	if cfg.ES_URL != "" {
		es, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		index = search.NewIndex(es, cfg.ES_INDEX)
	} else {
		logger.Warn("no Elasticsearch configured, search disabled")
	}

	guard := &authmw.Middleware{Tokens: tokens}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()
	e.HTTPErrorHandler = httpserver.ErrorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(guard.Gate)

	httpserver.Register(e, &httpserver.Deps{
		Auth:     &handlers.AuthHandler{DB: db, Tokens: tokens},
		Beats:    &handlers.BeatHandler{DB: db, Owners: owners, Index: index},
		Licenses: &handlers.LicenseHandler{DB: db, Owners: owners},
		Uploads:  &handlers.UploadHandler{Blobs: blobs},
		Search:   &handlers.SearchHandler{Index: index},
		Guard:    guard,
	})

	e.Logger.Fatal(e.Start(":" + cfg.SERVER_PORT))
}
