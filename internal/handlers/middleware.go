package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/imrishuroy/storefront-policies/internal/policies"
	"github.com/imrishuroy/storefront-policies/internal/validation"
)

// Context keys.
const (
	RequestIDKey = "request_id"
	LoggerKey    = "logger"
	LocaleKey    = "locale"
)

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = "X-Request-Id"

// RequestID reuses the caller's X-Request-Id or generates one, and echoes it
// back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog stores a request-scoped logger in the context and logs every
// request once it completes.
func AccessLog(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger := base.With(zap.String(RequestIDKey, c.GetString(RequestIDKey)))
		c.Set(LoggerKey, logger)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// getLogger retrieves the request logger from the Gin context.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}

// Locale resolves the request locale from ?language=&country=, then from
// Accept-Language, then from defaultLanguage. An invalid query is ignored.
func Locale(v *validatorv10.Validate, defaultLanguage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := validation.BindLocale(c, v)
		if err != nil {
			getLogger(c).Debug("ignoring invalid locale query",
				zap.Any("fields", validation.ErrorsToMap(err)))
		}

		loc := policies.Locale{Language: q.Language, Country: q.Country}
		if loc.Language == "" {
			lang, country := acceptLanguage(v, c.GetHeader("Accept-Language"))
			loc.Language = lang
			if loc.Country == "" {
				loc.Country = country
			}
		}
		if loc.Language == "" {
			loc.Language = strings.ToUpper(defaultLanguage)
		}

		c.Set(LocaleKey, loc)
		c.Next()
	}
}

// acceptLanguage returns the upper-cased base language and explicit region
// of the preferred tag in header. Codes that are not two letters ("*" parses
// as "mul", "es-419" has a numeric region) are dropped.
func acceptLanguage(v *validatorv10.Validate, header string) (string, string) {
	if header == "" {
		return "", ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", ""
	}
	base, conf := tags[0].Base()
	lang := strings.ToUpper(base.String())
	if conf < language.High || !validation.ValidCode(v, lang) {
		return "", ""
	}
	var country string
	if region, rconf := tags[0].Region(); rconf == language.Exact && validation.ValidCode(v, region.String()) {
		country = region.String()
	}
	return lang, country
}

func localeFrom(c *gin.Context) policies.Locale {
	if v, ok := c.Get(LocaleKey); ok {
		if loc, ok := v.(policies.Locale); ok {
			return loc
		}
	}
	return policies.Locale{}
}

// limiterIdleTTL is how long a client's limiter is kept after its last
// request.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a limiter per client IP. Idle entries are swept
// at most once per limiterIdleTTL.
type rateLimiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	perMin    int
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	return &rateLimiterStore{
		limiters:  map[string]*clientLimiter{},
		perMin:    perMin,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (s *rateLimiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterIdleTTL {
		for key, cl := range s.limiters {
			if now.Sub(cl.lastSeen) >= limiterIdleTTL {
				delete(s.limiters, key)
			}
		}
		s.lastSweep = now
	}

	cl, ok := s.limiters[ip]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin),
		}
		s.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// RateLimit allows perMin requests per minute per client IP. A non-positive
// perMin disables limiting.
func RateLimit(perMin int) gin.HandlerFunc {
	if perMin <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	store := newRateLimiterStore(perMin)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip).Allow() {
			getLogger(c).Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
