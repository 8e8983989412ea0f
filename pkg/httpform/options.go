package httpform

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/render"
)

const defaultMaxBodyBytes = 1 << 20

// RenderOptionsFunc derives per-request render options, for example to add a
// CSRF token or pick a theme.
type RenderOptionsFunc func(r *http.Request) render.RenderOptions

type Option func(*Handler)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics registers the submission counter with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(h *Handler) {
		h.registerer = reg
	}
}

// WithRenderOptions sets the per-request render options builder.
func WithRenderOptions(fn RenderOptionsFunc) Option {
	return func(h *Handler) {
		h.renderOptions = fn
	}
}

// WithFormOptions forwards options to form.New for every request.
func WithFormOptions(opts ...form.Option) Option {
	return func(h *Handler) {
		h.formOptions = append(h.formOptions, opts...)
	}
}

// WithSuccessRedirect sets the 303 target after a valid submission. Defaults
// to the request path.
func WithSuccessRedirect(location string) Option {
	return func(h *Handler) {
		h.redirect = location
	}
}

// WithSuccessHandler replaces the redirect with a custom response.
func WithSuccessHandler(next http.Handler) Option {
	return func(h *Handler) {
		h.success = next
	}
}

// WithMaxBodyBytes caps the size of a submission body.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}
