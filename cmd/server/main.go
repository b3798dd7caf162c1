package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"elearn-platform/internal/auth"
	"elearn-platform/internal/course"
	"elearn-platform/internal/leaderboard"
	"elearn-platform/internal/models"
	"elearn-platform/internal/quiz"
	"elearn-platform/pkg/cache"
	"elearn-platform/pkg/database"
	"elearn-platform/pkg/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Quiz{},
		&models.Question{},
		&models.QuizAttempt{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Initialize repositories
	authRepo := auth.NewRepository(db)
	courseStore := course.NewCachedStore(course.NewRepository(db), redisCache)
	quizRepo := quiz.NewRepository(db)
	leaderboardRepo := leaderboard.NewRepository(db)

	// Initialize services
	mailer := buildMailer()
	authService := auth.NewService(authRepo, mailer, auth.Config{
		JWTSecret: os.Getenv("JWT_SECRET"),
		BaseURL:   os.Getenv("BASE_URL"),
	})
	wsHub.SetTokenVerifier(authService)

	courseService := course.NewService(courseStore, wsHub, redisCache)
	quizService := quiz.NewService(quizRepo, quiz.Policy{
		EnforceMaxAttempts: os.Getenv("ATTEMPT_POLICY") == "enforced",
	})
	quizService.SetCompletionChecker(courseService)
	leaderboardService := leaderboard.NewService(leaderboardRepo, redisCache)

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	courseHandler := course.NewHandler(courseService)
	quizHandler := quiz.NewHandler(quizService)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)

	// Setup router
	router := mux.NewRouter()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/auth/magic-link", authHandler.RequestMagicLink).Methods("POST", "OPTIONS")
	router.HandleFunc("/verify", authHandler.VerifyMagicLink).Methods("GET")

	// Learner routes - JWT required
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(os.Getenv("JWT_SECRET")))

	apiRouter.HandleFunc("/user", authHandler.CurrentUser).Methods("GET")
	apiRouter.HandleFunc("/courses", courseHandler.ListCourses).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/courses/{id}", courseHandler.GetCourse).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/courses/{id}/lessons", courseHandler.GetCourseLessons).Methods("GET")
	apiRouter.HandleFunc("/courses/{id}/quiz", quizHandler.GetCourseQuiz).Methods("GET")
	apiRouter.HandleFunc("/lessons/{id}", courseHandler.GetLesson).Methods("GET")
	apiRouter.HandleFunc("/lessons/{id}/read", courseHandler.MarkLessonRead).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quizzes/{id}/submit", quizHandler.SubmitQuiz).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quizzes/{id}/results", quizHandler.GetResults).Methods("GET")
	apiRouter.HandleFunc("/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")

	// WebSocket endpoint
	router.HandleFunc("/ws", wsHub.HandleWebSocket)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}

func buildMailer() auth.Mailer {
	host := os.Getenv("MAIL_HOST")
	if host == "" {
		log.Printf("MAIL_HOST not set, magic links will be logged instead of mailed")
		return auth.LogMailer{}
	}
	return auth.NewSMTPMailer(auth.MailConfig{
		Host:     host,
		Port:     os.Getenv("MAIL_PORT"),
		Username: os.Getenv("MAIL_USER"),
		Password: os.Getenv("MAIL_PASS"),
		From:     os.Getenv("MAIL_FROM"),
	})
}
