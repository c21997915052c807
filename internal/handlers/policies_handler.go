package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-policies/internal/policies"
	"github.com/imrishuroy/storefront-policies/internal/validation"
)

// ViewPublisher receives an event for every policy page served.
type ViewPublisher interface {
	SendViewEvent(ctx context.Context, ev policies.ViewEvent) error
}

// HandlerConfig groups dependencies for the policy handlers.
type HandlerConfig struct {
	Source          policies.Source
	Publisher       ViewPublisher // optional
	Brand           string
	DefaultLanguage string
}

// RegisterPolicyRoutes registers the policy index and policy page routes.
func RegisterPolicyRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.SetHTMLTemplate(templates)

	h := &policyHandler{
		resolver:  policies.NewResolver(cfg.Source),
		publisher: cfg.Publisher,
		brand:     cfg.Brand,
		now:       time.Now,
	}

	g := r.Group("/policies", Locale(validation.New(), cfg.DefaultLanguage))
	g.GET("", h.index)
	// "/policies/" reaches the policy handler with an empty handle
	g.GET("/", h.policy)
	g.GET("/:handle", h.policy)
}

type policyHandler struct {
	resolver  *policies.Resolver
	publisher ViewPublisher
	brand     string
	now       func() time.Time
}

func (h *policyHandler) policy(c *gin.Context) {
	ctx := c.Request.Context()
	logger := getLogger(c)
	loc := localeFrom(c)
	handle := c.Param("handle")

	doc, err := h.resolver.Resolve(ctx, handle, loc)
	if err != nil {
		writeError(c, logger, err, zap.String("handle", handle))
		return
	}

	c.HTML(http.StatusOK, "policy.html", newPolicyPage(h.brand, loc, doc))

	if h.publisher == nil {
		return
	}
	// handle was validated by Resolve
	field, _ := policies.FieldFromHandle(handle)
	ev := policies.ViewEvent{
		Policy:    field,
		Handle:    handle,
		Language:  loc.Language,
		RequestID: c.GetString(RequestIDKey),
		ViewedAt:  h.now().UTC(),
	}
	if err := h.publisher.SendViewEvent(ctx, ev); err != nil {
		logger.Warn("failed to publish policy view", zap.String("policy", string(field)), zap.Error(err))
	}
}

func (h *policyHandler) index(c *gin.Context) {
	loc := localeFrom(c)

	list, err := h.resolver.Index(c.Request.Context(), loc)
	if err != nil {
		writeError(c, getLogger(c), err)
		return
	}
	c.HTML(http.StatusOK, "policies.html", newIndexPage(h.brand, loc, list))
}

// writeError maps resolver errors to plain-text responses.
func writeError(c *gin.Context, logger *zap.Logger, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, policies.ErrMissingHandle), errors.Is(err, policies.ErrPolicyNotFound):
		c.String(http.StatusNotFound, err.Error())
	default:
		logger.Error("policy lookup failed", append(fields, zap.Error(err))...)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
