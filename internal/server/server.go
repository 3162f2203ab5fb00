// Package server assembles the HTTP router: repositories, services and handlers wired
// together behind gin.
package server

import (
	"net/http"
	"strings"

	_ "gamerx/api/swagger" // swagger docs
	"gamerx/internal/config"
	"gamerx/internal/handler"
	"gamerx/internal/mail"
	"gamerx/internal/middleware"
	"gamerx/internal/repository"
	"gamerx/internal/service"
	"gamerx/internal/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter builds the engine serving the whole API on top of the given repositories
func NewRouter(cfg *config.Config, repos repository.Set, mailer mail.Sender) *gin.Engine {
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	auth := middleware.NewAuthenticator(tokens, repos.Users)

	// Set up dependencies (Repository -> Service -> Handler)
	userService := service.NewUserService(repos.Users, repos.Tx, tokens, mailer, service.UserConfig{
		AdminSecret: cfg.Auth.AdminSecret,
		VerifyURL:   strings.TrimRight(cfg.Server.PublicBaseURL, "/") + "/verify",
	})
	categoryService := service.NewCategoryService(repos.Categories, repos.Audit, repos.Tx)
	productService := service.NewProductService(repos.Products, repos.Categories, repos.StockMovements, repos.Audit, repos.Tx)
	orderService := service.NewOrderService(repos)
	reviewService := service.NewReviewService(repos.Reviews, repos.Products, repos.Audit, repos.Tx)
	auditService := service.NewAuditService(repos.Audit)

	userHandler := handler.NewUserHandler(userService, handler.UploadConfig{
		Dir:      cfg.Upload.Dir,
		MaxBytes: cfg.Upload.MaxBytes,
	})
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	auditHandler := handler.NewAuditHandler(auditService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origins := cfg.Server.Origins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.Static("/uploads", cfg.Upload.Dir)

	api := router.Group("")
	userHandler.RegisterRoutes(api, auth)
	categoryHandler.RegisterRoutes(api, auth)
	productHandler.RegisterRoutes(api, auth)
	orderHandler.RegisterRoutes(api, auth)
	reviewHandler.RegisterRoutes(api, auth)
	auditHandler.RegisterRoutes(api, auth)

	return router
}
