package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"voice_admin_backend/internal/database"
	"voice_admin_backend/internal/metrics"
	"voice_admin_backend/internal/models"
	"voice_admin_backend/internal/repositories"
	"voice_admin_backend/internal/router"
	"voice_admin_backend/internal/services"
	"voice_admin_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	utils.InitLogger()
	utils.InitJWT(
		utils.Getenv("JWT_SECRET", "dev-only-voice-admin-jwt-secret"),
		utils.GetenvDuration("JWT_TTL", 12*time.Hour),
	)

	ctx := context.Background()

	store, err := database.Open(ctx, storageConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()
	utils.LogInfo("Database initialized", map[string]interface{}{"driver": store.Driver()})

	if err := seed(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}

	engine := gin.Default()
	engine.Use(utils.GinLogger())
	engine.Use(metrics.GinMiddleware())

	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Setup(engine, store)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func storageConfig() database.Config {
	driver := utils.Getenv("DB_DRIVER", "postgres")

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		if driver == "sqlite" {
			dsn = "file:voice_admin.db"
		} else {
			dsn = database.PostgresDSN(
				utils.Getenv("DB_HOST", "localhost"),
				utils.Getenv("DB_PORT", "5432"),
				utils.Getenv("DB_USER", "voice_admin"),
				utils.Getenv("DB_PASSWORD", "voice_admin"),
				utils.Getenv("DB_NAME", "voice_admin_db"),
				utils.Getenv("DB_SSLMODE", "disable"),
			)
		}
	}

	return database.Config{
		Driver:        driver,
		DSN:           dsn,
		AutoMigrate:   utils.GetenvBool("DB_AUTO_MIGRATE", true),
		MigrationsDir: utils.Getenv("DB_MIGRATIONS_DIR", "migrations"),
	}
}

// seed inserts the singleton settings row and the bootstrap admin account
// when they are absent. Placeholder credentials satisfy the format rules and
// are expected to be rotated through the dashboard.
func seed(ctx context.Context, store *database.Store) error {
	auditRepo := repositories.NewAuditLogRepository(store)
	settingsRepo := repositories.NewSettingsRepository(store, auditRepo)

	err := settingsRepo.SeedSettings(ctx, &models.PlatformSettings{
		OpenAIAPIKey:                     "sk-**********",
		DeepgramAPIKey:                   "dg-********",
		TwilioAccountSID:                 "AC**********",
		RimeAPIKey:                       "rm-********",
		EnableBargeInInterruption:        true,
		PlayLatencyFillerPhraseOnTimeout: true,
		AllowAutoRetryOnFailedCalls:      false,
	})
	if err != nil {
		return err
	}

	authRepo := repositories.NewAuthRepository(store)
	authService := services.NewAuthService(authRepo, store.DB())

	_, err = authService.CreateUser(ctx, services.CreateUserRequest{
		Email:    utils.Getenv("ADMIN_EMAIL", "admin@voiceplatform.local"),
		Password: utils.Getenv("ADMIN_PASSWORD", "change-me-please"),
		FullName: "Platform Admin",
		Role:     models.RoleAdmin,
	})
	if err != nil && !errors.Is(err, services.ErrEmailExists) {
		return err
	}
	return nil
}
