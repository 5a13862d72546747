// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/config"
	"github.com/tbourn/go-schedule-backend/internal/domain"
	"github.com/tbourn/go-schedule-backend/internal/http/handlers"
	"github.com/tbourn/go-schedule-backend/internal/http/middleware"
	"github.com/tbourn/go-schedule-backend/internal/repo"
	"github.com/tbourn/go-schedule-backend/internal/services"
)

// slotRepoShim adapts the repository free functions to the services.SlotRepo
// interface expected by the SlotService. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type slotRepoShim struct{}

func (slotRepoShim) CreateSlot(ctx context.Context, db *gorm.DB, s *domain.Slot) (*domain.Slot, error) {
	return repo.CreateSlot(ctx, db, s)
}

func (slotRepoShim) GetSlot(ctx context.Context, db *gorm.DB, id string) (*domain.Slot, error) {
	return repo.GetSlot(ctx, db, id)
}

func (slotRepoShim) ListSlots(ctx context.Context, db *gorm.DB) ([]domain.Slot, error) {
	return repo.ListSlots(ctx, db)
}

func (slotRepoShim) CountSlots(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountSlots(ctx, db)
}

func (slotRepoShim) ListSlotsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Slot, error) {
	return repo.ListSlotsPage(ctx, db, offset, limit)
}

func (slotRepoShim) ListSlotsByDay(ctx context.Context, db *gorm.DB, dayOfWeek int) ([]domain.Slot, error) {
	return repo.ListSlotsByDay(ctx, db, dayOfWeek)
}

func (slotRepoShim) CountActiveSlotsForDay(ctx context.Context, db *gorm.DB, dayOfWeek int) (int64, error) {
	return repo.CountActiveSlotsForDay(ctx, db, dayOfWeek)
}

func (slotRepoShim) ListConflictCandidates(ctx context.Context, db *gorm.DB, dayOfWeek int, excludeID string) ([]domain.Slot, error) {
	return repo.ListConflictCandidates(ctx, db, dayOfWeek, excludeID)
}

func (slotRepoShim) ListSlotsEffectiveInRange(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]domain.Slot, error) {
	return repo.ListSlotsEffectiveInRange(ctx, db, startDate, endDate)
}

func (slotRepoShim) UpdateSlot(ctx context.Context, db *gorm.DB, s *domain.Slot) error {
	return repo.UpdateSlot(ctx, db, s)
}

func (slotRepoShim) SoftDeleteSlot(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return repo.SoftDeleteSlot(ctx, db, id)
}

func (slotRepoShim) DeleteSlot(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return repo.DeleteSlot(ctx, db, id)
}

// exceptionRepoShim adapts the repository free functions to the
// services.ExceptionRepo interface expected by the ExceptionService.
type exceptionRepoShim struct{}

func (exceptionRepoShim) CreateException(ctx context.Context, db *gorm.DB, ex *domain.SlotException) (*domain.SlotException, error) {
	return repo.CreateException(ctx, db, ex)
}

func (exceptionRepoShim) GetException(ctx context.Context, db *gorm.DB, id string) (*domain.SlotException, error) {
	return repo.GetException(ctx, db, id)
}

func (exceptionRepoShim) GetExceptionBySlotAndDate(ctx context.Context, db *gorm.DB, slotID, date string) (*domain.SlotException, error) {
	return repo.GetExceptionBySlotAndDate(ctx, db, slotID, date)
}

func (exceptionRepoShim) ListExceptions(ctx context.Context, db *gorm.DB) ([]domain.SlotException, error) {
	return repo.ListExceptions(ctx, db)
}

func (exceptionRepoShim) CountExceptions(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountExceptions(ctx, db)
}

func (exceptionRepoShim) ListExceptionsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.SlotException, error) {
	return repo.ListExceptionsPage(ctx, db, offset, limit)
}

func (exceptionRepoShim) ListExceptionsBySlot(ctx context.Context, db *gorm.DB, slotID string) ([]domain.SlotException, error) {
	return repo.ListExceptionsBySlot(ctx, db, slotID)
}

func (exceptionRepoShim) ListExceptionsInRange(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]domain.SlotException, error) {
	return repo.ListExceptionsInRange(ctx, db, startDate, endDate)
}

func (exceptionRepoShim) UpdateException(ctx context.Context, db *gorm.DB, ex *domain.SlotException) error {
	return repo.UpdateException(ctx, db, ex)
}

func (exceptionRepoShim) DeleteException(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return repo.DeleteException(ctx, db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, compression, CORS and security headers, health and metrics
// endpoints, and then mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Gzip compression (projection responses over long ranges repeat a lot
	// of structure and compress well)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope:  idempotencyScope,
		},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (off by default; enable via SWAGGER_ENABLED)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	slotSvc := services.NewSlotService(db, slotRepoShim{})
	exSvc := services.NewExceptionService(db, exceptionRepoShim{}, slotRepoShim{})
	schedSvc := services.NewScheduleService(db, slotRepoShim{}, exceptionRepoShim{})
	schedSvc.MaxProjectionDays = cfg.MaxProjectionDays

	h := handlers.New(slotSvc, exSvc, schedSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Slots. Static segments (weekly, schedule, day, range) are registered
		// alongside :id; Gin resolves them by precedence.
		api.POST("/slots", h.CreateSlot)
		api.GET("/slots", h.ListSlots)
		api.GET("/slots/weekly", h.GetWeeklySchedule)
		api.GET("/slots/schedule", h.GetSchedule)
		api.GET("/slots/day/:dayOfWeek", h.ListSlotsByDay)
		api.GET("/slots/range", h.ListSlotsInRange)
		api.GET("/slots/:id", h.GetSlot)
		api.PUT("/slots/:id", h.UpdateSlot)
		api.PUT("/slots/:id/exception", h.UpsertSlotException)
		api.DELETE("/slots/:id", h.DeleteSlot)

		// Exceptions
		api.POST("/exceptions", h.CreateException)
		api.GET("/exceptions", h.ListExceptions)
		api.GET("/exceptions/effective/:slotId/:date", h.GetEffectiveSlot)
		api.GET("/exceptions/:id", h.GetException)
		api.PUT("/exceptions/:id", h.UpdateException)
		api.DELETE("/exceptions/:id", h.DeleteException)

		// Aggregates
		api.GET("/stats", h.GetStats)
	}
}

// idempotencyScope buckets idempotency keys per resource family so the same
// key can be reused safely across unrelated endpoints.
func idempotencyScope(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	switch {
	case strings.Contains(path, "/slots"):
		return "slots"
	case strings.Contains(path, "/exceptions"):
		return "exceptions"
	default:
		return ""
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
