package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jongocollab/jongohub/internal/bootstrap"
	"github.com/jongocollab/jongohub/internal/config"
	"github.com/jongocollab/jongohub/internal/handler"
	"github.com/jongocollab/jongohub/internal/middleware"
	"github.com/jongocollab/jongohub/internal/repository"
	"github.com/jongocollab/jongohub/internal/service"
	"github.com/jongocollab/jongohub/internal/token"
	"github.com/jongocollab/jongohub/pkg/database"
	"github.com/jongocollab/jongohub/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, disconnect, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		zlog.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		if err := disconnect(context.Background()); err != nil {
			zlog.Error("mongodb disconnect failed", zap.Error(err))
		}
	}()

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	postRepo := repository.NewPostRepository(db)

	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes, schoolRepo.EnsureIndexes, postRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			zlog.Fatal("failed to create indexes", zap.Error(err))
		}
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(ctx, userRepo, cfg, zlog); err != nil {
			zlog.Fatal("failed to seed admin user", zap.Error(err))
		}
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL)

	authService := service.NewAuthService(userRepo, schoolRepo, tokens, cfg, zlog)
	adminService := service.NewAdminService(userRepo, zlog)
	postService := service.NewPostService(postRepo, userRepo, zlog)

	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	postHandler := handler.NewPostHandler(postService)
	authMiddleware := middleware.NewAuthMiddleware(userRepo, tokens)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(zlog))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(router, authHandler, adminHandler, postHandler, authMiddleware)
	registerFrontend(router, cfg.StaticDir)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server exited", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

func registerRoutes(router *gin.Engine, authHandler *handler.AuthHandler, adminHandler *handler.AdminHandler, postHandler *handler.PostHandler, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	api.GET("/health", handler.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
	}

	admin := api.Group("/admin")
	admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
	{
		admin.GET("/pending-users", adminHandler.ListPendingUsers)
		admin.PUT("/approve-user/:id", adminHandler.ApproveUser)
		admin.DELETE("/reject-user/:id", adminHandler.RejectUser)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", postHandler.List)
		posts.GET("/:id", postHandler.Get)
		posts.GET("/:id/image/:index", postHandler.GetImage)

		posts.POST("", authMiddleware.RequireAuth(), postHandler.Create)
		posts.PUT("/:id", authMiddleware.RequireAuth(), postHandler.Update)
		posts.DELETE("/:id", authMiddleware.RequireAuth(), postHandler.Delete)
		posts.POST("/:id/like", authMiddleware.RequireAuth(), postHandler.ToggleLike)
		posts.POST("/:id/comment", authMiddleware.RequireAuth(), postHandler.AddComment)
		posts.POST("/:id/collaborate", authMiddleware.RequireAuth(), postHandler.RequestCollaboration)
	}
}

// registerFrontend serves the fixed set of static pages; everything else
// that is not an API path falls back to the landing page.
func registerFrontend(router *gin.Engine, staticDir string) {
	router.Static("/css", filepath.Join(staticDir, "css"))
	router.Static("/js", filepath.Join(staticDir, "js"))
	router.Static("/images", filepath.Join(staticDir, "images"))

	pages := map[string]string{
		"/":                "landing.html",
		"/index.html":      "landing.html",
		"/landing.html":    "landing.html",
		"/auth":            "auth.html",
		"/auth.html":       "auth.html",
		"/dashboard":       "student_db.html",
		"/student_db.html": "student_db.html",
		"/community":       "community.html",
		"/community.html":  "community.html",
	}
	for route, page := range pages {
		router.StaticFile(route, filepath.Join(staticDir, page))
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "API endpoint not found",
			})
			return
		}
		c.File(filepath.Join(staticDir, "landing.html"))
	})
}
