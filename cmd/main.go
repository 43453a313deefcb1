package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ntquang/learnhub/config"
	"github.com/ntquang/learnhub/database"
	_ "github.com/ntquang/learnhub/docs" // Swagger docs - auto-generated
	adminctrl "github.com/ntquang/learnhub/internal/controller/admin"
	authctrl "github.com/ntquang/learnhub/internal/controller/auth"
	userctrl "github.com/ntquang/learnhub/internal/controller/user"
	"github.com/ntquang/learnhub/internal/logger"
	"github.com/ntquang/learnhub/internal/middleware"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/ntquang/learnhub/internal/service"
	"github.com/ntquang/learnhub/internal/worker"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title LearnHub LMS API
// @version 1.0
// @description Course catalog, enrollment, quiz attempts with grading, and certificate issuance.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,
			service.NewSystemClock,
		),

		// Repositories layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewCourseRepository,
			repository.NewQuizRepository,
			repository.NewEnrollmentRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewCertificateRepository,
		),

		// Services layer
		fx.Provide(
			service.NewAuthService,
			service.NewCourseService,
			service.NewQuizService,
			service.NewEnrollmentService,
			service.NewEligibilityService,
			service.NewAttemptService,
			service.NewCompletionService,
			service.NewGradingService,
			service.NewMailer,
			service.NewCertificateService,
			func(cs service.CertificateService) service.CertificateIssuer { return cs },
		),

		// Background workers
		fx.Provide(
			func(enrollmentRepo repository.EnrollmentRepository, issuer service.CertificateIssuer, cfg *config.Config) *worker.CertificateSweeper {
				return worker.NewCertificateSweeper(enrollmentRepo, issuer, cfg.SweepSchedule)
			},
		),

		// API controllers layer
		fx.Provide(
			authctrl.NewAuthController,
			userctrl.NewQuizController,
			userctrl.NewCourseController,
			adminctrl.NewAdminController,
		),

		fx.Invoke(MigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartCertificateSweeper),
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
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authController *authctrl.AuthController,
	quizController *userctrl.QuizController,
	courseController *userctrl.CourseController,
	adminController *adminctrl.AdminController,
) {
	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
	}

	api.GET("/courses", courseController.ListCourses)

	studentGroup := api.Group("")
	studentGroup.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		studentGroup.POST("/courses/:course_id/enroll", courseController.Enroll)
		studentGroup.GET("/me/enrollments", courseController.MyEnrollments)
		studentGroup.GET("/me/certificates", courseController.MyCertificates)

		studentGroup.GET("/quizzes/:quiz_id", quizController.GetQuiz)
		studentGroup.POST("/quizzes/:quiz_id/start", quizController.StartAttempt)
		studentGroup.POST("/quizzes/:quiz_id/submit", quizController.SubmitAttempt)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireAuth(cfg.JWTSecret), middleware.RequireRole(model.RoleAdmin))
	{
		adminGroup.POST("/courses", adminController.CreateCourse)
		adminGroup.POST("/courses/:course_id/publish", adminController.PublishCourse)
		adminGroup.POST("/quizzes", adminController.CreateQuiz)
		adminGroup.POST("/quizzes/:quiz_id/publish", adminController.PublishQuiz)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("LearnHub API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
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

// StartCertificateSweeper ties the cron sweeper to the fx lifecycle.
func StartCertificateSweeper(lc fx.Lifecycle, sweeper *worker.CertificateSweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}

func MigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
