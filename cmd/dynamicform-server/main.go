package main

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"filippo.io/csrf/gorilla"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sloghttp "github.com/samber/slog-http"

	"github.com/goliatone/go-dynamicform"
	"github.com/goliatone/go-dynamicform/internal/bootstrap"
	"github.com/goliatone/go-dynamicform/internal/config"
	"github.com/goliatone/go-dynamicform/pkg/httpform"
	"github.com/goliatone/go-dynamicform/pkg/render"
	"github.com/goliatone/go-dynamicform/pkg/renderers/vanilla"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	conf, err := config.Parse()
	if err != nil {
		return errors.WithStack(err)
	}

	logger := bootstrap.NewLogger(conf.Logger, os.Stderr)
	slog.SetDefault(logger)

	handler, err := newHandler(ctx, conf, logger)
	if err != nil {
		return errors.WithStack(err)
	}

	server := &http.Server{
		Addr:    conf.HTTP.Address,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("could not shut down server", slog.Any("error", errors.WithStack(err)))
		}
	}()

	logger.Info("listening", "address", conf.HTTP.Address, "form", conf.Form.Descriptor)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}
	return nil
}

func newHandler(ctx context.Context, conf *config.Config, logger *slog.Logger) (http.Handler, error) {
	desc, err := dynamicform.LoadDescriptor(ctx, conf.Form.Descriptor, conf.Form.Operation)
	if err != nil {
		return nil, err
	}
	if conf.Form.CSSFramework != "" {
		desc.CSSFramework = conf.Form.CSSFramework
	}

	formOpts, err := bootstrap.FormOptions(conf.Form, logger)
	if err != nil {
		return nil, err
	}
	themeConfig, err := bootstrap.ThemeConfig(conf.Form.Theme, conf.Form.Variant)
	if err != nil {
		return nil, err
	}

	vanillaOpts := []vanilla.Option{vanilla.WithStylesheet("/assets/" + vanilla.StylesheetName)}
	if !conf.Form.EchoPasswords {
		vanillaOpts = append(vanillaOpts, vanilla.WithoutPasswordValues())
	}
	registry, err := dynamicform.NewRegistry(vanillaOpts...)
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(conf.Form.Renderer)
	if err != nil {
		return nil, errors.Wrap(err, "renderer cannot serve HTTP")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	onSubmit := func(ctx context.Context, values validation.Values) error {
		logger.InfoContext(ctx, "form submitted", "form", desc.ID, "fields", len(values))
		return nil
	}

	forms, err := httpform.New(desc, renderer, onSubmit,
		httpform.WithLogger(logger),
		httpform.WithMetrics(reg),
		httpform.WithFormOptions(formOpts...),
		httpform.WithMaxBodyBytes(conf.HTTP.MaxBodyBytes),
		httpform.WithSuccessRedirect(conf.HTTP.SuccessRedirect),
		httpform.WithRenderOptions(func(*http.Request) render.RenderOptions {
			return render.RenderOptions{Theme: themeConfig}
		}),
	)
	if err != nil {
		return nil, err
	}

	protect, err := csrfMiddleware(conf.HTTP, logger)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(sloghttp.Recovery)
	router.Use(sloghttp.New(logger))
	router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
	if conf.Metrics.Enabled {
		router.Handle(conf.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	router.Mount(conf.HTTP.BasePath, protect(forms))
	return router, nil
}

func csrfMiddleware(conf config.HTTP, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	key := []byte(conf.CSRFKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	opts := []csrf.Option{
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reason := "unknown"
			if err := csrf.FailureReason(r); err != nil {
				reason = err.Error()
			}
			logger.WarnContext(r.Context(), "csrf validation failed",
				"reason", reason,
				"path", r.URL.Path,
				"origin", r.Header.Get("Origin"),
			)
			http.Error(w, "Forbidden - CSRF validation failed", http.StatusForbidden)
		})),
	}
	if len(conf.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(conf.TrustedOrigins))
	}
	return csrf.Protect(key, opts...), nil
}
