package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"capsule/internal/config"
	"capsule/internal/database"
	"capsule/internal/domain/capsule"
	"capsule/internal/domain/upload"
	"capsule/internal/middleware"
	jwtsvc "capsule/internal/pkg/jwt"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	storage := upload.NewStorage(cfg.UploadsDir)
	if err := storage.EnsureDirs(); err != nil {
		log.Fatal(err)
	}
	parser := upload.NewParser(storage, upload.Limits{
		MaxFileSize: cfg.MaxFileSize,
		MaxFiles:    cfg.MaxFiles,
	})

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	mediaService := upload.NewService(upload.NewRepository(db), storage)
	mediaHandler := upload.NewHandler(mediaService)

	capsuleService := capsule.NewService(capsule.NewRepository(db))
	capsuleHandler := capsule.NewHandler(capsuleService, mediaService)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorHandler(), middleware.CORS())

	// stored files are served straight from the uploads tree
	r.Static(upload.URLPrefix, storage.Root())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(
			middleware.JWTAuth(j),
			upload.Middleware(parser, cfg.MemoryBufferLimit),
		)
		{
			upload.RegisterRoutes(protected, mediaHandler)
			capsule.RegisterRoutes(protected, capsuleHandler)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
