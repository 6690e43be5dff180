// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"vitrine_backend/platform/config"
	"vitrine_backend/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// ContextUserIDKey is the gin context key for the authenticated user ID.
	ContextUserIDKey = "userID"
	// ContextEmailKey is the gin context key for the session email.
	ContextEmailKey = "email"
	// ContextAdminKey is the gin context key for the admin flag.
	ContextAdminKey = "isAdmin"

	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"

	errMissingToken = "missing token"
	errInvalidToken = "invalid token"
	errForbidden    = "forbidden"
)

// RequestID propagates or generates a request id and stores it on the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing, and the cause of every 5xx.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()
		reqLog := log.WithContext(c.Request.Context())

		if status >= http.StatusInternalServerError {
			for _, ginErr := range c.Errors {
				reqLog.HTTPError(c.Request.Method, path, status, ginErr.Err, clientIP)
			}
		}
		reqLog.HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Only add HSTS in production
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// CORS builds the gin-contrib/cors middleware from the HTTP config.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return cors.New(corsCfg)
}

// IPRateLimiter manages per-IP rate limiters.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

// NewPublicRateLimiter limits anonymous writes (quote requests, rendez-vous, sign-in).
func NewPublicRateLimiter(cfg config.RateLimitConfig, log *logger.Logger) *IPRateLimiter {
	perMinute := cfg.GetPublicRatePerMinute()
	if perMinute <= 0 {
		perMinute = 10
	}
	burst := cfg.GetPublicRateBurst()
	if burst <= 0 {
		burst = 5
	}
	return NewIPRateLimiter(rate.Limit(float64(perMinute)/60.0), burst, log)
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter)
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := i.getLimiter(ip)

		if !limiter.Allow() {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// AuthOptional attaches the session when a valid bearer token is present and
// lets anonymous requests through untouched.
func AuthOptional(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rawToken, ok := extractBearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := ParseAccessToken(rawToken, cfg.GetJWTAccessSecret()); err == nil {
				attachSession(c, claims)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a valid access token with 401.
func AuthRequired(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, cfg) {
			return
		}
		c.Next()
	}
}

// AdminRequired answers 401 without a session and 403 when the session is not an admin.
func AdminRequired(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, cfg) {
			return
		}
		if !GetIdentity(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: errForbidden})
			return
		}
		c.Next()
	}
}

// authenticate attaches the session or aborts with 401.
func authenticate(c *gin.Context, cfg config.JWTConfig) bool {
	rawToken, ok := extractBearerToken(c.GetHeader("Authorization"))
	if !ok {
		abortUnauthorized(c, errMissingToken)
		return false
	}

	claims, err := ParseAccessToken(rawToken, cfg.GetJWTAccessSecret())
	if err != nil {
		abortUnauthorized(c, errInvalidToken)
		return false
	}

	attachSession(c, claims)
	return true
}

// AccessClaims are the claims carried by dashboard access tokens.
type AccessClaims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"admin"`
	Type    string `json:"type"`
	jwt.RegisteredClaims
}

// SignAccessToken issues an HS256 access token for a user.
func SignAccessToken(userID uuid.UUID, email string, isAdmin bool, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email:   email,
		IsAdmin: isAdmin,
		Type:    "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken validates signature, expiry and token type.
func ParseAccessToken(rawToken, secret string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New(errInvalidToken)
	}
	if claims.Type != "access" {
		return nil, errors.New(errInvalidToken)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, errors.New(errInvalidToken)
	}
	return claims, nil
}

func attachSession(c *gin.Context, claims *AccessClaims) {
	userID, _ := uuid.Parse(claims.Subject)
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextEmailKey, claims.Email)
	c.Set(ContextAdminKey, claims.IsAdmin)
	ctx := context.WithValue(c.Request.Context(), logger.SessionEmailKey, claims.Email)
	c.Request = c.Request.WithContext(ctx)
}

func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	rawToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if rawToken == "" {
		return "", false
	}

	return rawToken, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}
