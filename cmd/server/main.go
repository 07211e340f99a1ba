package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalogue_back_end/internal/catalog"
	"catalogue_back_end/internal/config"
	"catalogue_back_end/internal/database"
	"catalogue_back_end/internal/handlers"
	"catalogue_back_end/internal/logger"
	"catalogue_back_end/internal/middleware"
	"catalogue_back_end/internal/routes"
	"catalogue_back_end/internal/services"
	"catalogue_back_end/internal/utils"
)

func main() {
	dotenv := config.LoadDotEnv()
	cfg := config.Load()

	zlog, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatalf("❌ Initialisation du logger: %v", err)
	}
	defer zlog.Sync()

	if dotenv {
		zap.S().Info("✅ Fichier .env chargé avec succès")
	} else {
		zap.S().Info("⚠️ Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	conns, err := database.Connect(ctx, cfg)
	cancel()
	if err != nil {
		zap.S().Fatalw("❌ Connexion à la base impossible", "error", err)
	}
	defer conns.Close()

	opts := []catalog.Option{catalog.WithTimeouts(cfg.Timeouts)}

	if cfg.FallbackFile != "" {
		fallback, err := catalog.LoadFallback(cfg.FallbackFile)
		if err != nil {
			zap.S().Warnw("⚠️ Catalogue de repli illisible, données intégrées utilisées", "file", cfg.FallbackFile, "error", err)
		} else {
			opts = append(opts, catalog.WithFallback(fallback))
			zap.S().Infow("✅ Catalogue de repli chargé", "file", cfg.FallbackFile)
		}
	}

	if conns.Elastic != nil {
		opts = append(opts, catalog.WithSearchIndex(services.NewElasticIndex(conns.Elastic, cfg.Elastic.Index)))
	}

	mailer := utils.NewMailer(cfg.SMTP)
	var notifier *services.MailNotifier
	if mailer.Enabled() {
		notifier, err = services.NewMailNotifier(mailer, mailer.Recipient(), 4)
		if err != nil {
			zap.S().Fatalw("❌ Pool de notifications", "error", err)
		}
		defer notifier.Close(10 * time.Second)
		opts = append(opts, catalog.WithNotifier(notifier))
		zap.S().Infow("✅ Notifications e-mail activées", "to", mailer.Recipient())
	}

	svc := catalog.New(conns.Store, opts...)

	if conns.Elastic != nil && cfg.Elastic.ReindexSchedule != "" {
		scheduler, err := services.NewReindexScheduler(cfg.Elastic.ReindexSchedule, svc, 5*time.Minute)
		if err != nil {
			zap.S().Fatalw("❌ Planification de la réindexation", "schedule", cfg.Elastic.ReindexSchedule, "error", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		zap.S().Infow("⏰ Réindexation planifiée", "schedule", cfg.Elastic.ReindexSchedule)
	}

	var images handlers.Images
	if conns.MinIO != nil {
		imageStore := services.NewImageStore(conns.MinIO, cfg.MinIO.Bucket, cfg.MinIO.URLValidity)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := imageStore.EnsureBucket(ctx); err != nil {
			zap.S().Warnw("⚠️ Bucket MinIO indisponible", "error", err)
		}
		cancel()
		images = imageStore
	}

	if cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	routes.RegisterRoutes(r, handlers.New(svc, images, cfg.Auth), conns.Redis, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.S().Infow("🚀 Serveur catalogue lancé", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("❌ Serveur HTTP", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("🛑 Arrêt du serveur...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorw("❌ Arrêt forcé du serveur", "error", err)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	return c
}
