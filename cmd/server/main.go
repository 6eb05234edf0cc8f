package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nem-uma-a-menos/counter-api/internal/cache"
	"github.com/nem-uma-a-menos/counter-api/internal/config"
	"github.com/nem-uma-a-menos/counter-api/internal/dataset"
	"github.com/nem-uma-a-menos/counter-api/internal/handlers"
	"github.com/nem-uma-a-menos/counter-api/internal/middleware"
	"github.com/nem-uma-a-menos/counter-api/internal/services/news"
	"github.com/nem-uma-a-menos/counter-api/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The tables are compiled in; a malformed table is a build defect and
	// must fail the process, not individual requests.
	if err := dataset.Validate(); err != nil {
		log.Fatalf("Invalid dataset: %v", err)
	}

	engine := stats.NewEngine(dataset.Yearly, dataset.Monthly, nil)
	provider := news.NewService(cfg)
	store := cache.NewStore(engine, provider, cfg.CacheWindow, nil)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, store, engine)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func setupRouter(cfg *config.Config, store *cache.Store, engine *stats.Engine) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Printf("panic serving %s: %v", c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":    "internal server error",
			"fallback": store.Fallback(),
		})
	}))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS)
	limiter.StartCleanup()

	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimit(limiter))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	counterHandler := handlers.NewCounterHandler(store, engine)
	authHandler := handlers.NewAuthHandler(cfg)

	router.GET("/feminicide-data", counterHandler.Get)
	router.GET("/statistics", counterHandler.Statistics)
	router.POST("/admin/token", authHandler.Token)
	router.POST("/feminicide-data", middleware.AdminAuth(cfg), counterHandler.Admin)

	return router
}
