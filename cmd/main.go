package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/edustack/analogia/config"
	_ "github.com/edustack/analogia/docs"
	"github.com/edustack/analogia/internal/cache"
	"github.com/edustack/analogia/internal/controller"
	"github.com/edustack/analogia/internal/database"
	"github.com/edustack/analogia/internal/identity"
	"github.com/edustack/analogia/internal/logger"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/repository"
	"github.com/edustack/analogia/internal/service"
)

// @title Analogia API
// @version 1.0
// @description Teaching-analogy generation, review, and quiz platform for lecturers and students.
// @BasePath /
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			cache.NewCache,
			NewGinEngine, // Provides *gin.Engine
		),

		// Repositories layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewModuleRepository,
			repository.NewEnrollmentRepository,
			repository.NewAnalogySetRepository,
			repository.NewQuizRepository,
			repository.NewAttemptRepository,
		),

		// Identity resolution
		fx.Provide(
			func(users repository.UserRepository, cfg *config.Config) identity.Resolver {
				return identity.NewCookieResolver(users, cfg)
			},
		),

		// Services layer
		fx.Provide(
			service.NewGeneratorService,
			service.NewImageService,
			service.NewAnalogyService,
			service.NewModuleService,
			service.NewQuizService,
			service.NewAttemptService,
		),

		// API controllers layer
		fx.Provide(
			controller.NewAuthController,
			controller.NewAnalogyController,
			controller.NewModuleController,
			controller.NewQuizController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires the API surface and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	resolver identity.Resolver,
	authCtrl *controller.AuthController,
	analogyCtrl *controller.AnalogyController,
	moduleCtrl *controller.ModuleController,
	quizCtrl *controller.QuizController,
) {
	router.Use(identity.Middleware(resolver))

	router.GET("/healthz", controller.Health)

	api := router.Group("/api")
	{
		api.POST("/demo-role", authCtrl.SetDemoRole)
		api.POST("/student-session", authCtrl.SetStudentSession)

		api.POST("/generate-analogies", analogyCtrl.Generate)
		api.POST("/generate-image", analogyCtrl.GenerateImage)

		analogies := api.Group("/analogies")
		analogies.GET("", analogyCtrl.List)
		analogies.GET("/:id", analogyCtrl.Get)
		analogies.POST("/:id/approve", analogyCtrl.Approve)
		analogies.POST("/:id/request-changes", analogyCtrl.RequestChanges)
		analogies.POST("/:id/feedback", analogyCtrl.UpdateFeedback)
		analogies.POST("/:id/regenerate", analogyCtrl.Regenerate)
		analogies.POST("/:id/interactions", analogyCtrl.RecordInteraction)

		modules := api.Group("/modules")
		modules.POST("/create", moduleCtrl.Create)
		modules.GET("", moduleCtrl.List)
		modules.POST("/:code/enroll", moduleCtrl.Enroll)

		quizzes := api.Group("/quizzes")
		quizzes.POST("", quizCtrl.Create)
		quizzes.GET("", quizCtrl.List)
		quizzes.GET("/:id", quizCtrl.Get)
		quizzes.POST("/:id/publish", quizCtrl.Publish)
		quizzes.POST("/:id/archive", quizCtrl.Archive)
		quizzes.POST("/:id/attempts", quizCtrl.SubmitAttempt)
		quizzes.GET("/:id/my-attempts", quizCtrl.MyAttempts)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Analogia API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Module{},
		&model.ModuleEnrollment{},
		&model.AnalogySet{},
		&model.AnalogyInteraction{},
		&model.Quiz{},
		&model.Question{},
		&model.Option{},
		&model.QuizAttempt{},
		&model.QuizResponse{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
