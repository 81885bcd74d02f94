// Package server provides the HTTP server setup and routing
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pantrysage/v1/internal/infrastructure/config"
	"github.com/pantrysage/v1/internal/infrastructure/http/handlers"
	"github.com/pantrysage/v1/internal/infrastructure/http/middleware"
	"github.com/pantrysage/v1/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wraps the HTTP server with its dependencies
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	httpServer *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, logger *zap.Logger, svc inbound.PlannerService) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	mw := middleware.New(cfg, logger)
	h := handlers.New(svc, mw, cfg, logger)

	router := gin.New()
	router.Use(
		mw.RequestID(),
		mw.Logger(),
		mw.Recovery(),
		mw.Security(),
		mw.CORS(),
		mw.RateLimit(),
	)

	registerRoutes(router, mw, h, svc, cfg)

	return &Server{
		config: cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

func registerRoutes(router *gin.Engine, mw *middleware.Middleware, h *handlers.Handler, svc inbound.PlannerService, cfg *config.Config) {
	router.GET(cfg.Server.HealthCheckPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET(cfg.Server.ReadinessPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(mw.Auth(svc))
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.SignIn)
			auth.POST("/logout", h.SignOut)
			auth.GET("/session", h.Session)
		}

		pantries := v1.Group("/pantries")
		{
			pantries.GET("", h.ListPantries)
			pantries.POST("", h.CreatePantry)
			pantries.PUT("/:pantryID/select", h.SelectPantry)
			pantries.POST("/:pantryID/ingredients", h.AddIngredient)
			pantries.PATCH("/:pantryID/ingredients/:ingredientID", h.AdjustIngredient)
			pantries.DELETE("/:pantryID/ingredients/:ingredientID", h.RemoveIngredient)
			pantries.POST("/:pantryID/import", h.ImportIngredients)
			pantries.POST("/:pantryID/scan", h.ScanReceipt)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.POST("/generate", h.GenerateRecipes)
			recipes.DELETE("/generate", h.CancelGeneration)
			recipes.GET("/generate", h.GenerationStatus)
			recipes.POST("/save", h.ToggleSaveRecipe)
			recipes.GET("/saved", h.SavedRecipes)
			recipes.POST("/custom", h.CreateCustomRecipe)
		}

		meals := v1.Group("/meals")
		{
			meals.POST("/log", h.LogMeal)
			meals.POST("/schedule", h.ScheduleMeal)
			meals.PUT("/:mealID/complete", h.CompleteMeal)
			meals.DELETE("/:mealID", h.DeleteMeal)
			meals.GET("", h.MealHistory)
		}

		shopping := v1.Group("/shopping")
		{
			shopping.GET("/cart", h.Cart)
			shopping.POST("/cart", h.AddCartItem)
			shopping.DELETE("/cart/:itemID", h.RemoveCartItem)
			shopping.PUT("/cart/:itemID/toggle", h.ToggleCartItem)
			shopping.POST("/cart/export-missing", h.ExportMissing)
			shopping.POST("/plan", h.PlanShopping)
			shopping.POST("/plan/commit", h.CommitShoppingPlan)
			shopping.POST("/orders", h.PlaceOrder)
			shopping.GET("/orders", h.Orders)
			shopping.PUT("/orders/:orderID/advance", h.AdvanceOrder)
			shopping.PUT("/orders/:orderID/cancel", h.CancelOrder)
		}

		v1.POST("/chat", h.Chat)

		settings := v1.Group("/settings")
		{
			settings.GET("/preferences", h.Preferences)
			settings.PUT("/preferences", h.UpdatePreferences)
			settings.POST("/trial", h.StartTrial)
			settings.POST("/subscription", h.ApplySubscription)
			settings.GET("/membership", h.Membership)
		}
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.httpServer.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
