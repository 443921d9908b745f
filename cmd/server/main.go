package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"vocabdrill/internal/config"
	"vocabdrill/internal/database"
	"vocabdrill/internal/handlers"
	"vocabdrill/internal/quiz"
	"vocabdrill/internal/repository"
	"vocabdrill/internal/security"
	"vocabdrill/internal/service"
	"vocabdrill/internal/words"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	migrationsDir := filepath.Join(cfg.MigrationsPath, db.Dialect.MigrationsSubdir())
	if err := db.RunMigrations(migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load the word table
	table, err := words.Load(cfg.WordFilePath)
	if err != nil {
		log.Fatalf("Failed to load word table: %v", err)
	}

	log.Printf("Word table loaded (%d words)", table.Count())

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	stateRepo := repository.NewStateRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	lifecycle := quiz.NewLifecycle(table, quiz.ContainmentMatcher{}, nil)
	quizService := service.NewQuizService(stateRepo, attemptRepo, lifecycle)
	statsService := service.NewStatsService(attemptRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AdminEmail)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if !emailService.IsEnabled() {
		log.Println("Email notifications disabled (SES_FROM_EMAIL or ADMIN_EMAIL not set)")
	}
	contactService := service.NewContactService(contactRepo, emailService)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, csrf, limiter)
	authHandler := handlers.NewAuthHandler(authService, templates, oauthProviders, cfg.OAuthRedirectBase)
	quizHandler := handlers.NewQuizHandler(quizService, statsService, table, middleware, templates)
	roughHandler := handlers.NewRoughHandler(quizService, table, middleware, templates)
	mistakesHandler := handlers.NewMistakesHandler(quizService, table, middleware, templates)
	wordsHandler := handlers.NewWordsHandler(table, templates)
	statsHandler := handlers.NewStatsHandler(statsService, templates)
	myPageHandler := handlers.NewMyPageHandler(authService, middleware, templates)
	contactHandler := handlers.NewContactHandler(contactService, middleware, templates)
	adminHandler := handlers.NewAdminHandler(authService, contactService, statsService, middleware, templates)

	// Setup routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Public routes
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /register", authHandler.SignupDisabled)
	mux.HandleFunc("GET /signup", authHandler.SignupDisabled)
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Menu and direction
	mux.HandleFunc("GET /menu", middleware.RequireAuth(quizHandler.ShowMenu))
	mux.HandleFunc("POST /direction", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.SetDirection)))

	// Free-text quiz routes
	mux.HandleFunc("POST /quiz/start/random", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.StartRandom)))
	mux.HandleFunc("POST /quiz/start/range", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.StartRange)))
	mux.HandleFunc("POST /quiz/start/retry", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.StartRetry)))
	mux.HandleFunc("POST /quiz/resume/{slot}", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Resume)))
	mux.HandleFunc("GET /quiz", middleware.RequireAuth(quizHandler.ShowQuestion))
	mux.HandleFunc("POST /quiz/answer", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.SubmitAnswer)))
	mux.HandleFunc("POST /quiz/next", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Advance)))
	mux.HandleFunc("GET /quiz/result", middleware.RequireAuth(quizHandler.ShowResult))
	mux.HandleFunc("GET /quiz/progress", middleware.RequireAuth(quizHandler.ShowProgress))
	mux.HandleFunc("POST /quiz/suspend", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Suspend)))
	mux.HandleFunc("POST /quiz/exit", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Abandon)))
	mux.HandleFunc("POST /quiz/reset", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Reset)))

	// Rough mode routes
	mux.HandleFunc("GET /rough", middleware.RequireAuth(roughHandler.ShowMenu))
	mux.HandleFunc("POST /rough/start", middleware.RequireAuth(middleware.CSRFProtect(roughHandler.Start)))
	mux.HandleFunc("POST /rough/start/range", middleware.RequireAuth(middleware.CSRFProtect(roughHandler.StartRange)))
	mux.HandleFunc("POST /rough/start/review", middleware.RequireAuth(middleware.CSRFProtect(roughHandler.StartReview)))
	mux.HandleFunc("POST /rough/resume/{slot}", middleware.RequireAuth(middleware.CSRFProtect(roughHandler.Resume)))
	mux.HandleFunc("POST /rough/exit", middleware.RequireAuth(middleware.CSRFProtect(roughHandler.Exit)))

	// Mistake list routes
	mux.HandleFunc("GET /mistakes", middleware.RequireAuth(mistakesHandler.ShowMistakes))
	mux.HandleFunc("POST /mistakes/remove", middleware.RequireAuth(middleware.CSRFProtect(mistakesHandler.RemoveWord)))
	mux.HandleFunc("POST /mistakes/remove-bulk", middleware.RequireAuth(middleware.CSRFProtect(mistakesHandler.RemoveWords)))

	// Word search routes
	mux.HandleFunc("GET /words/search", middleware.RequireAuth(wordsHandler.Search))
	mux.HandleFunc("GET /api/suggest", middleware.RequireAuth(wordsHandler.Suggest))

	// Stats and account routes
	mux.HandleFunc("GET /stats", middleware.RequireAuth(statsHandler.ShowStats))
	mux.HandleFunc("GET /mypage", middleware.RequireAuth(myPageHandler.ShowMyPage))
	mux.HandleFunc("POST /mypage/nickname", middleware.RequireAuth(middleware.CSRFProtect(myPageHandler.UpdateNickname)))
	mux.HandleFunc("POST /mypage/username", middleware.RequireAuth(middleware.CSRFProtect(myPageHandler.UpdateUsername)))
	mux.HandleFunc("POST /mypage/password", middleware.RequireAuth(middleware.CSRFProtect(myPageHandler.ChangePassword)))

	// Contact routes
	mux.HandleFunc("GET /contact", middleware.RequireAuth(contactHandler.ShowContact))
	mux.HandleFunc("POST /contact", middleware.RequireAuth(middleware.CSRFProtect(contactHandler.Submit)))

	// Admin routes
	mux.HandleFunc("GET /admin/users", middleware.RequireAdmin(adminHandler.ShowUsers))
	mux.HandleFunc("POST /admin/users/create", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.CreateUser)))
	mux.HandleFunc("POST /admin/users/{id}/delete", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteUser)))
	mux.HandleFunc("GET /admin/messages", middleware.RequireAdmin(adminHandler.ShowMessages))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	baseTemplate := filepath.Join(templatesPath, "base.tmpl")

	patterns := []string{
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "quiz/*.tmpl"),
		filepath.Join(templatesPath, "admin/*.tmpl"),
	}

	var files []string
	files = append(files, baseTemplate)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	// Define template functions
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"pct": func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a * 100 / b
		},
	}

	// Parse all templates with functions
	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
