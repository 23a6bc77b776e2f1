package main

import (
	"agency-workspace/internal/attendance"
	"agency-workspace/internal/config"
	"agency-workspace/internal/db"
	"agency-workspace/internal/invoice"
	"agency-workspace/internal/leave"
	"agency-workspace/internal/logger"
	"agency-workspace/internal/message"
	"agency-workspace/internal/middleware"
	"agency-workspace/internal/page"
	"agency-workspace/internal/task"
	"agency-workspace/internal/user"
	"agency-workspace/internal/worker"
	"agency-workspace/redis"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger.Init(config.AppConfig.Environment)

	if err := db.ConnectDb(); err != nil {
		logger.Log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.CloseDb()

	db.Migrate()
	if config.AppConfig.Environment == "development" {
		db.SeedData()
	}

	cache := redis.NewCache(config.AppConfig.RedisAddress)

	jobs := worker.NewPool(config.AppConfig.WorkerPoolSize)
	defer jobs.Shutdown()

	// Repositories
	userRepo := user.NewRepository(db.AppDb)
	pageRepo := page.NewRepository(db.AppDb)
	taskRepo := task.NewRepository(db.AppDb)
	leaveRepo := leave.NewRepository(db.AppDb)
	invoiceRepo := invoice.NewRepository(db.AppDb)
	messageRepo := message.NewRepository(db.AppDb)
	attendanceRepo := attendance.NewRepository(db.AppDb)

	// Services
	userService := user.NewService(userRepo)
	pageService := page.NewService(pageRepo, cache, jobs)
	taskService := task.NewService(taskRepo)
	leaveService := leave.NewService(leaveRepo)
	invoiceService := invoice.NewService(invoiceRepo)
	messageService := message.NewService(messageRepo, cache, config.AppConfig.TypingTTL)
	attendanceService := attendance.NewService(attendanceRepo)

	// Handlers
	userHandler := user.NewHandler(userService)
	pageHandler := page.NewHandler(pageService)
	taskHandler := task.NewHandler(taskService)
	leaveHandler := leave.NewHandler(leaveService)
	invoiceHandler := invoice.NewHandler(invoiceService)
	messageHandler := message.NewHandler(messageService)
	attendanceHandler := attendance.NewHandler(attendanceService)

	authMiddleware := &middleware.Auth{UserService: userService}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if config.AppConfig.Environment == "development" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// Public routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.POST("/refresh", userHandler.RefreshToken)

	authed := router.Group("/", authMiddleware.AuthMiddleWare())
	{
		authed.DELETE("/logout", userHandler.Logout)
		authed.GET("/profile", userHandler.GetProfile)
		authed.GET("/users", userHandler.SearchUsers)
		authed.PATCH("/users/:id/role", middleware.RequireRole("admin"), userHandler.ChangeRole)

		authed.GET("/pages", pageHandler.List)
		authed.POST("/pages", pageHandler.Create)
		authed.GET("/pages/:id", pageHandler.Show)
		authed.PATCH("/pages/:id", pageHandler.PatchMeta)
		authed.DELETE("/pages/:id", pageHandler.Delete)
		authed.POST("/pages/:id/blocks", pageHandler.CreateBlock)
		authed.PATCH("/pages/:id/blocks", pageHandler.PatchBlocks)
		authed.DELETE("/pages/:id/blocks", pageHandler.DeleteBlock)

		authed.POST("/tasks", taskHandler.Create)
		authed.GET("/tasks", taskHandler.List)
		authed.GET("/tasks/:id", taskHandler.Show)
		authed.PATCH("/tasks/:id", taskHandler.Patch)
		authed.DELETE("/tasks/:id", taskHandler.Delete)

		authed.POST("/leaves", leaveHandler.Create)
		authed.GET("/leaves", leaveHandler.ListOwn)
		authed.GET("/leaves/pending", middleware.RequireRole("manager", "admin"), leaveHandler.ListPending)
		authed.PATCH("/leaves/:id", middleware.RequireRole("manager", "admin"), leaveHandler.Decide)

		invoices := authed.Group("/invoices", middleware.RequireRole("manager", "admin"))
		{
			invoices.POST("", invoiceHandler.Create)
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/:id", invoiceHandler.Show)
			invoices.PATCH("/:id", invoiceHandler.ChangeStatus)
			invoices.DELETE("/:id", invoiceHandler.Delete)
		}

		authed.POST("/messages", messageHandler.Send)
		authed.GET("/conversations", messageHandler.ListConversations)
		authed.GET("/conversations/:id/messages", messageHandler.Poll)
		authed.POST("/conversations/:id/typing", messageHandler.SetTyping)
		authed.GET("/conversations/:id/typing", messageHandler.PeerTyping)

		authed.POST("/attendance/clock-in", attendanceHandler.ClockIn)
		authed.POST("/attendance/clock-out", attendanceHandler.ClockOut)
		authed.GET("/attendance/today", attendanceHandler.Today)
		authed.GET("/attendance", attendanceHandler.History)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.AppConfig.ServerPort),
		Handler: router.Handler(),
	}

	go func() {
		logger.Log.Info().Str("port", config.AppConfig.ServerPort).Msg("server listening")
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("server shutdown error")
	}

	logger.Log.Info().Msg("server shutdown complete")
}
