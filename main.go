package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"theory-test-service/internal/db"
	"theory-test-service/internal/event"
	"theory-test-service/internal/handlers"
	"theory-test-service/internal/repository"
	"theory-test-service/internal/service"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)
	defer db.CloseMongo()

	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "theory_test_service"
	}

	// Redis is optional; without it the create-session lock degrades to the
	// query-only check.
	redisDB := 0
	if v, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		redisDB = v
	}
	db.InitRedis(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"), redisDB)
	defer db.CloseRedis()

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, session events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(dbName)

	// Catalog: license types, signs, categories
	licenseRepo := repository.NewLicenseTypeRepository(database)
	signRepo := repository.NewSignRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	catalogHandler := handlers.NewCatalogHandler(licenseRepo, signRepo, categoryRepo)

	// Questions
	questionRepo := repository.NewQuestionRepository(database)
	questionService := service.NewQuestionService(questionRepo, licenseRepo)
	questionHandler := handlers.NewQuestionHandler(questionService)

	// Per-question progress and bookmarks
	progressRepo := repository.NewProgressRepository(database)
	progressService := service.NewProgressService(progressRepo)
	progressHandler := handlers.NewProgressHandler(progressService, questionService)

	// Sessions
	sessionRepo := repository.NewSessionRepository(database)
	sessionService := service.NewSessionService(
		sessionRepo,
		questionRepo,
		licenseRepo,
		progressService,
		db.RedisClient,
	)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	// Statistics
	statsService := service.NewStatsService(sessionRepo, questionRepo, licenseRepo, progressService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Templates
	templateRepo := repository.NewTemplateRepository(database)
	templateService := service.NewTemplateService(templateRepo, sessionService)
	templateHandler := handlers.NewTemplateHandler(templateService)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes - catalog
	publicLicense := r.Group("/public/theory/license-type")
	{
		publicLicense.GET("/", catalogHandler.ListLicenseTypes)
		publicLicense.GET("/:id", catalogHandler.GetLicenseType)
	}
	publicSign := r.Group("/public/theory/sign")
	{
		publicSign.GET("/", catalogHandler.ListSigns)
		publicSign.GET("/:id", catalogHandler.GetSign)
	}
	publicCategory := r.Group("/public/theory/category")
	{
		publicCategory.GET("/", catalogHandler.ListCategories)
	}

	publicQuestion := r.Group("/public/theory/question")
	{
		publicQuestion.GET("/", questionHandler.ListQuestions)
		publicQuestion.GET("/count", questionHandler.CountQuestions)
		publicQuestion.GET("/count/by-category", questionHandler.CountByCategory)
		publicQuestion.GET("/:id", questionHandler.GetQuestion)
	}

	// Protected routes - question management
	protectedQuestion := r.Group("/protected/theory/question", requireUser())
	{
		protectedQuestion.POST("/", questionHandler.CreateQuestion)
		protectedQuestion.PUT("/:id", questionHandler.UpdateQuestion)
		protectedQuestion.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	protectedProgress := r.Group("/protected/theory/progress", requireUser())
	{
		protectedProgress.POST("/bookmark/:questionId", func(c *gin.Context) {
			progressHandler.ToggleBookmark(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish(event.BookmarkToggled, gin.H{
					"question_id": c.Param("questionId"),
					"user_id":     c.GetHeader("X-User-ID"),
				})
			}
		})
		protectedProgress.GET("/bookmarks", progressHandler.ListBookmarks)
		protectedProgress.POST("/lookup", progressHandler.LookupProgress)
	}

	protectedStats := r.Group("/protected/theory/stats", requireUser())
	{
		protectedStats.GET("/pass-chance", statsHandler.PassChance)
		protectedStats.GET("/mastery/:licenseTypeId", statsHandler.Mastery)
		protectedStats.GET("/dashboard", statsHandler.Dashboard)
	}

	protectedTemplate := r.Group("/protected/theory/template", requireUser())
	{
		protectedTemplate.POST("/", templateHandler.CreateTemplate)
		protectedTemplate.GET("/", templateHandler.ListTemplates)
		protectedTemplate.GET("/:id", templateHandler.GetTemplate)
		protectedTemplate.PUT("/:id", templateHandler.UpdateTemplate)
		protectedTemplate.DELETE("/:id", templateHandler.DeleteTemplate)
		protectedTemplate.POST("/:id/start", func(c *gin.Context) {
			templateHandler.StartTemplate(c)
			if publisher != nil && c.Writer.Status() == http.StatusCreated {
				publisher.Publish(event.SessionCreated, gin.H{
					"template_id": c.Param("id"),
					"user_id":     c.GetHeader("X-User-ID"),
				})
			}
		})
	}

	setupSessionRoutes(r, sessionHandler, publisher)

	port := os.Getenv("PORT")
	if port == "" {
		port = "6789"
	}
	r.Run(":" + port)
}

// requireUser rejects requests that arrive without the user header the
// gateway sets after authentication.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func setupSessionRoutes(r *gin.Engine, sessionHandler *handlers.SessionHandler, publisher *event.EventPublisher) {
	protectedSession := r.Group("/protected/theory/session", requireUser())
	{
		// === SESSION LIFECYCLE ===

		protectedSession.POST("/", func(c *gin.Context) {
			sessionHandler.CreateSession(c)
			if publisher != nil && c.Writer.Status() == http.StatusCreated {
				publisher.Publish(event.SessionCreated, gin.H{
					"user_id": c.GetHeader("X-User-ID"),
				})
			}
		})

		protectedSession.GET("/", sessionHandler.ListSessions)
		protectedSession.GET("/:id", sessionHandler.GetSession)

		// === TEST INTERACTION ===

		protectedSession.POST("/:id/answer", func(c *gin.Context) {
			sessionHandler.SubmitAnswer(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish(event.AnswerRecorded, gin.H{
					"session_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
				})
			}
		})

		protectedSession.POST("/:id/skip", sessionHandler.SkipQuestion)
		protectedSession.POST("/:id/pause", sessionHandler.PauseSession)

		protectedSession.POST("/:id/complete", func(c *gin.Context) {
			sessionHandler.CompleteSession(c)
			if publisher != nil && c.Writer.Status() == http.StatusOK {
				publisher.Publish(event.SessionCompleted, gin.H{
					"session_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
				})
			}
		})

		// === RESTART AND HISTORY ===

		protectedSession.POST("/:id/redo", sessionHandler.RedoSession)
		protectedSession.POST("/:id/similar", sessionHandler.SimilarSession)
		protectedSession.DELETE("/:id", sessionHandler.DeleteSession)
	}
}
