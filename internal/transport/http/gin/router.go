package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redisrepo "github.com/seatwise/seatwise/internal/repository/redis"
	"github.com/seatwise/seatwise/internal/service"
	"github.com/seatwise/seatwise/internal/service/venues"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/venues", handleCreateVenue(svcs, idem))
		api.GET("/venues/:slug", handleGetVenue(svcs))
		api.PUT("/venues/:slug", handleUpdateVenue(svcs))
		api.POST("/venues/:slug/validate-pin", handleValidatePIN(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Create venue (idempotent)
// @Success  201 {object} CreateVenueResponse
// @Header   201 {string} Idempotency-Key "echo"
// @Failure  409 {object} ErrorResponse "idem in progress"
// @Router   /api/venues [post]
func handleCreateVenue(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemCreateVenue(idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		v, err := svcs.Venues.Create(c.Request.Context())
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := CreateVenueResponse{Slug: v.Slug}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Get venue snapshot
// @Param    slug  path  string  true  "Venue slug"
// @Success  200  {object}  domain.Venue
// @Failure  404  {object}  ErrorResponse
// @Router   /api/venues/{slug} [get]
func handleGetVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug, ok := slugParam(c)
		if !ok {
			return
		}
		v, err := svcs.Venues.Get(c.Request.Context(), slug)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag so editors polling the snapshot get 304s
		writeJSONWithCache(c, http.StatusOK, v, "no-cache", true)
	}
}

// @Summary  Upsert venue snapshot
// @Param    slug  path  string  true  "Venue slug"
// @Param    req   body  UpdateVenueRequest true "payload"
// @Success  200 {object} domain.Venue
// @Failure  400 {object} ErrorResponse "malformed pin"
// @Failure  401 {object} ErrorResponse "pin required"
// @Failure  403 {object} ErrorResponse "invalid pin"
// @Router   /api/venues/{slug} [put]
func handleUpdateVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug, ok := slugParam(c)
		if !ok {
			return
		}
		var req UpdateVenueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		v, err := svcs.Venues.Update(c.Request.Context(), slug, req.VenueData, req.PIN)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, v)
	}
}

// @Summary  Validate venue PIN
// @Param    slug  path  string  true  "Venue slug"
// @Param    req   body  ValidatePINRequest true "payload"
// @Success  200 {object} ValidatePINResponse
// @Failure  400 {object} ValidatePINResponse "malformed pin"
// @Failure  403 {object} ValidatePINResponse "invalid pin"
// @Failure  429 {object} ValidatePINResponse "rate limited"
// @Router   /api/venues/{slug}/validate-pin [post]
func handleValidatePIN(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug, ok := slugParam(c)
		if !ok {
			return
		}
		var req ValidatePINRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ValidatePINResponse{
				Success: false,
				Message: "PIN is required.",
			})
			return
		}

		rlKey := "ip:" + c.ClientIP()

		success, message, err := svcs.Venues.ValidatePIN(
			c.Request.Context(),
			slug,
			req.PIN,
			rlKey,
		)
		if err != nil {
			var rl *venues.RateLimitedError
			switch {
			case errors.As(err, &rl):
				c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(rl.RetryAfter)))
				c.JSON(http.StatusTooManyRequests, ValidatePINResponse{
					Success: false,
					Message: message,
				})
			case errors.Is(err, venues.ErrMalformedPIN):
				c.JSON(http.StatusBadRequest, ValidatePINResponse{
					Success: false,
					Message: message,
				})
			case errors.Is(err, venues.ErrPINInvalid):
				c.JSON(http.StatusForbidden, ValidatePINResponse{
					Success: false,
					Message: message,
				})
			default:
				respondErr(c, err)
			}
			return
		}

		c.JSON(http.StatusOK, ValidatePINResponse{
			Success: success,
			Message: message,
		})
	}
}

// --- Helpers ---

func slugParam(c *gin.Context) (string, bool) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		badRequest(c, "invalid slug")
		return "", false
	}
	return slug, true
}

func retryAfterSeconds(d time.Duration) int {
	s := int(d.Round(time.Second).Seconds())
	if s < 1 {
		s = 1
	}
	return s
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	case errors.Is(err, venues.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
	case errors.Is(err, venues.ErrPINRequired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "pin required"})
	case errors.Is(err, venues.ErrPINInvalid):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "invalid pin"})
	case errors.Is(err, venues.ErrMalformedPIN):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "pin must be a 4-digit string"})
	case errors.Is(err, venues.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
