package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AJIyanu/msdbc/internal/auth"
	"github.com/AJIyanu/msdbc/internal/config"
	"github.com/AJIyanu/msdbc/internal/guard"
	"github.com/AJIyanu/msdbc/internal/httpmiddleware"
	"github.com/AJIyanu/msdbc/internal/logger"
	"github.com/AJIyanu/msdbc/internal/records"
	"github.com/AJIyanu/msdbc/internal/report"
	"github.com/AJIyanu/msdbc/internal/session"
	"github.com/AJIyanu/msdbc/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Fatal("http server failed", zap.Error(err))
	}
}

func runHTTP(cfg config.App, log *zap.Logger) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if cfg.MigrationsOn {
		if err := store.Migrate(db, cfg.MigrationsPath, log); err != nil {
			return err
		}
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	sessions := session.NewStore(redisClient.Client, cfg.SessionTTL, cfg.SessionLifetime)
	cookieSettings := auth.CookieSettings{
		Name:     cfg.SessionCookie,
		Issuer:   cfg.JWTIssuer,
		Key:      cfg.JWTSigningKey,
		Lifetime: cfg.SessionLifetime,
		Secure:   gin.Mode() == gin.ReleaseMode,
	}

	staffRepo := auth.NewRepository(db.Client)
	recordsRepo := records.NewRepository(db.Client)
	reports := report.NewService(report.NewRepository(db.Client))

	routes := guard.DefaultRoutes()

	r := gin.New()

	r.Use(gin.Recovery())

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	// The guard fronts every navigable path, matched or not.
	r.Use(guard.Middleware(routes, sessions, cookieSettings, log))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/api/auth/login", auth.LoginHandler(staffRepo, sessions, cookieSettings, log))

	r.GET("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"page":      "login",
			"returnUrl": c.Query("returnUrl"),
		})
	})

	r.GET("/records", func(c *gin.Context) {
		counts, err := recordsRepo.DashboardCounts(c.Request.Context())
		if err != nil {
			log.Error("dashboard counts failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "records unavailable"})
			return
		}
		c.JSON(http.StatusOK, counts)
	})

	r.GET("/records/attendance/sunday-school", func(c *gin.Context) {
		limit, offset := 50, 0
		if v := c.Query("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				limit = parsed
			}
		}
		if v := c.Query("offset"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				offset = parsed
			}
		}
		recs, err := recordsRepo.ListAttendance(c.Request.Context(), c.Query("class"), limit, offset)
		if err != nil {
			log.Error("attendance list failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "records unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": recs, "limit": limit, "offset": offset})
	})

	r.GET("/records/attendance/reports", func(c *gin.Context) {
		year := time.Now().Year()
		if v := c.Query("year"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
				return
			}
			year = parsed
		}
		quarter := report.QuarterFirst
		if v := c.Query("quarter"); v != "" {
			parsed, err := report.ParseQuarter(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quarter"})
				return
			}
			quarter = parsed
		}

		rep, err := reports.Report(c.Request.Context(), year, quarter)
		if err != nil {
			if errors.Is(err, report.ErrInvalidPeriod) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Error("report fetch failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "report unavailable, try again"})
			return
		}
		c.JSON(http.StatusOK, rep)
	})

	// Graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced shutdown", zap.Error(err))
	}

	log.Info("server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
