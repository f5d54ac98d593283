package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cogniboard/internal/access"
	"cogniboard/internal/config"
	"cogniboard/internal/database"
	"cogniboard/internal/handler"
	"cogniboard/internal/middleware"
	"cogniboard/internal/repository"
	"cogniboard/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	log.Println("✅ Connected to database")

	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	log.Println("✅ Migrations applied")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Setup Gin
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	guard := access.NewGuard(projectRepo, memberRepo, taskRepo, commentRepo)

	// Initialize services
	userService := service.NewUserService(userRepo, logger)
	projectService := service.NewProjectService(db, projectRepo, memberRepo, userRepo, logger)
	taskService := service.NewTaskService(taskRepo, userRepo, logger)
	commentService := service.NewCommentService(commentRepo, logger)

	// Initialize handlers
	tokenTTL := time.Duration(cfg.JWTTTLHours) * time.Hour
	userHandler := handler.NewUserHandler(userService, cfg.JWTSecret, tokenTTL)
	projectHandler := handler.NewProjectHandler(projectService, guard)
	taskHandler := handler.NewTaskHandler(taskService, guard)
	commentHandler := handler.NewCommentHandler(commentService, guard)
	healthHandler := handler.NewHealthHandler()

	// Public routes
	r.GET("/health", healthHandler.Check)
	r.POST("/auth/register", userHandler.Register)
	r.POST("/auth/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Auth routes
		authorized.GET("/auth/me", userHandler.Me)
		authorized.GET("/auth/users", userHandler.List)

		// Project routes
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects", projectHandler.List)
		authorized.GET("/projects/:id", projectHandler.Get)
		authorized.PATCH("/projects/:id", projectHandler.Update)
		authorized.DELETE("/projects/:id", projectHandler.Delete)

		// Membership routes
		authorized.GET("/projects/:id/members", projectHandler.ListMembers)
		authorized.POST("/projects/:id/members", projectHandler.AddMember)
		authorized.PATCH("/projects/:id/members/:user_id", projectHandler.UpdateMemberRole)
		authorized.DELETE("/projects/:id/members/:user_id", projectHandler.RemoveMember)

		// Task routes
		authorized.GET("/projects/:id/tasks", taskHandler.ListByProject)
		authorized.POST("/projects/:id/tasks", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.List)
		authorized.GET("/tasks/:id", taskHandler.Get)
		authorized.PATCH("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)

		// Comment routes
		authorized.GET("/tasks/:id/comments", commentHandler.ListByTask)
		authorized.POST("/tasks/:id/comments", commentHandler.Create)
		authorized.PATCH("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
