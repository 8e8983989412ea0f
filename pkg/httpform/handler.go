// Package httpform serves a dynamic form over HTTP. Every request builds a
// fresh form instance, so control toggles, validation and submission all work
// as plain HTML round trips.
package httpform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-dynamicform/pkg/controls"
	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/render"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

// FieldErrors is returned by a submit callback to reject values with
// server-side messages keyed by field id (or path). Keys that match no field
// are shown as form-level errors.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return "httpform: submission rejected: " + strings.Join(keys, ", ")
}

// Handler renders the form on GET and processes submissions on POST.
type Handler struct {
	router   chi.Router
	desc     model.Form
	renderer render.Renderer
	onSubmit validation.SubmitFunc

	logger        *slog.Logger
	registerer    prometheus.Registerer
	submissions   *prometheus.CounterVec
	renderOptions RenderOptionsFunc
	formOptions   []form.Option
	redirect      string
	success       http.Handler
	maxBodyBytes  int64
}

var _ http.Handler = (*Handler)(nil)

// New validates desc and returns the handler. onSubmit may be nil, in which
// case a valid submission only redirects.
func New(desc model.Form, renderer render.Renderer, onSubmit validation.SubmitFunc, opts ...Option) (*Handler, error) {
	if renderer == nil {
		return nil, errors.New("httpform: renderer is required")
	}

	h := &Handler{
		desc:         desc,
		renderer:     renderer,
		onSubmit:     onSubmit,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	if _, err := form.New(desc, h.formOptions...); err != nil {
		return nil, fmt.Errorf("httpform: %w", err)
	}

	counter, err := registerCounter(h.registerer, newSubmissionCounter())
	if err != nil {
		return nil, fmt.Errorf("httpform: register metrics: %w", err)
	}
	h.submissions = counter

	router := chi.NewRouter()
	router.Get("/", h.show)
	router.Post("/", h.submit)
	h.router = router
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	f, err := form.New(h.desc, h.formOptions...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, f.View(), nil)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(r.Context(), "httpform: parse submission", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	values := r.PostForm

	opts := append([]form.Option{form.WithValues(values)}, h.formOptions...)
	f, err := form.New(h.desc, opts...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	f.Controls().Decode(values)

	if action := values.Get(controls.ParamToggle); action != "" {
		if err := f.Toggle(action); err != nil {
			h.logger.WarnContext(r.Context(), "httpform: control action", "action", action, "error", err)
			http.Error(w, "invalid control action", http.StatusBadRequest)
			return
		}
		h.count(ResultToggle)
		h.write(w, r, http.StatusOK, f.View(), nil)
		return
	}

	f.Apply(values)
	err = f.Submit(r.Context(), func(ctx context.Context, collected validation.Values) error {
		if h.onSubmit == nil {
			return nil
		}
		return h.onSubmit(ctx, collected)
	})

	var rejected FieldErrors
	switch {
	case err == nil:
		h.count(ResultSuccess)
		h.logger.InfoContext(r.Context(), "httpform: submission accepted", "form", h.desc.ID)
		h.succeed(w, r)
	case errors.Is(err, validation.ErrSubmitBlocked):
		h.count(ResultInvalid)
		h.logger.DebugContext(r.Context(), "httpform: submission blocked", "form", h.desc.ID, "errors", len(f.Errors()))
		h.write(w, r, http.StatusUnprocessableEntity, f.View(), nil)
	case errors.As(err, &rejected):
		h.count(ResultRejected)
		view, formErrors := applyRejection(f.View(), rejected)
		h.logger.InfoContext(r.Context(), "httpform: submission rejected", "form", h.desc.ID, "error", err)
		h.write(w, r, http.StatusUnprocessableEntity, view, formErrors)
	default:
		h.count(ResultError)
		h.fail(w, r, err)
	}
}

func (h *Handler) succeed(w http.ResponseWriter, r *http.Request) {
	if h.success != nil {
		h.success.ServeHTTP(w, r)
		return
	}
	location := h.redirect
	if location == "" {
		location = r.URL.Path
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// applyRejection moves server-side messages onto the matching rows.
func applyRejection(view form.View, rejected FieldErrors) (form.View, []string) {
	mapping := render.MapErrorPayload(view, rejected)
	if len(mapping.Fields) > 0 {
		errs := make(map[string]string, len(view.Errors)+len(mapping.Fields))
		for id, msg := range view.Errors {
			errs[id] = msg
		}
		rows := make([]form.Row, len(view.Rows))
		copy(rows, view.Rows)
		for i, row := range rows {
			if msg := mapping.FieldMessage(row.Field.ID); msg != "" {
				rows[i].Error = msg
				errs[row.Field.ID] = msg
			}
		}
		view.Rows = rows
		view.Errors = errs
		view.Button.Disabled = true
	}
	return view, mapping.Form
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, view form.View, formErrors []string) {
	var opts render.RenderOptions
	if h.renderOptions != nil {
		opts = h.renderOptions(r)
	}
	opts.FormErrors = render.MergeFormErrors(opts.FormErrors, formErrors...)

	out, err := h.renderer.Render(r.Context(), view, opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	if _, err := io.Copy(w, bytes.NewReader(out)); err != nil {
		h.logger.WarnContext(r.Context(), "httpform: write response", "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "httpform: request failed", "form", h.desc.ID, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) count(result string) {
	h.submissions.WithLabelValues(result).Inc()
}
