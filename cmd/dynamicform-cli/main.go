package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/goliatone/go-dynamicform"
	"github.com/goliatone/go-dynamicform/internal/bootstrap"
	"github.com/goliatone/go-dynamicform/internal/config"
	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/render"
	"github.com/goliatone/go-dynamicform/pkg/renderers/tui"
	"github.com/goliatone/go-dynamicform/pkg/renderers/vanilla"
)

type options struct {
	descriptor   string
	operation    string
	renderer     string
	output       string
	format       string
	framework    string
	theme        string
	variant      string
	inlineStyles bool
	mode         string
	unknown      string
}

func main() {
	var opts options
	flag.StringVar(&opts.descriptor, "descriptor", "", "descriptor file (JSON/YAML) or OpenAPI document with -operation")
	flag.StringVar(&opts.operation, "operation", "", "OpenAPI operation ID to import")
	flag.StringVar(&opts.renderer, "renderer", "vanilla", "renderer to use: vanilla or tui")
	flag.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	flag.StringVar(&opts.format, "format", "json", "tui output format: json, form or pretty")
	flag.StringVar(&opts.framework, "framework", "", "override the descriptor cssFramework")
	flag.StringVar(&opts.theme, "theme", "", "built-in theme (plain, tailwind, bootstrap)")
	flag.StringVar(&opts.variant, "variant", "", "theme variant")
	flag.BoolVar(&opts.inlineStyles, "styles", false, "inline the default stylesheet")
	flag.StringVar(&opts.mode, "mode", "all", "validation mode")
	flag.StringVar(&opts.unknown, "unknown", "skip", "unsupported field types: skip or reject")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, opts)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.descriptor == "" {
		return errors.New("-descriptor is required")
	}

	logger := bootstrap.NewLogger(config.Logger{}, os.Stderr)

	desc, err := dynamicform.LoadDescriptor(ctx, opts.descriptor, opts.operation)
	if err != nil {
		return fmt.Errorf("load descriptor: %w", err)
	}
	if opts.framework != "" {
		desc.CSSFramework = opts.framework
	}

	formOpts, err := bootstrap.FormOptions(config.Form{Mode: opts.mode, UnknownTypes: opts.unknown}, logger)
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	f, err := form.New(desc, formOpts...)
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	var out []byte
	if opts.renderer == "tui" {
		out, err = runTUI(ctx, f, opts.format)
	} else {
		out, err = renderHTML(ctx, f, opts)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Form written to %s\n", opts.output)
	return nil
}

func runTUI(ctx context.Context, f *form.Form, format string) ([]byte, error) {
	outputFormat, ok := tui.ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	r, err := tui.New(tui.WithOutputFormat(outputFormat), tui.WithMaxAttempts(5))
	if err != nil {
		return nil, fmt.Errorf("create tui renderer: %w", err)
	}
	out, err := r.Run(ctx, f, nil)
	if err != nil {
		return nil, fmt.Errorf("form aborted: %w", err)
	}
	return out, nil
}

func renderHTML(ctx context.Context, f *form.Form, opts options) ([]byte, error) {
	var vanillaOpts []vanilla.Option
	if opts.inlineStyles {
		vanillaOpts = append(vanillaOpts, vanilla.WithDefaultStyles())
	}
	registry, err := dynamicform.NewRegistry(vanillaOpts...)
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(opts.renderer)
	if err != nil {
		return nil, err
	}
	themeConfig, err := bootstrap.ThemeConfig(opts.theme, opts.variant)
	if err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}
	out, err := renderer.Render(ctx, f.View(), render.RenderOptions{Theme: themeConfig})
	if err != nil {
		return nil, fmt.Errorf("render form: %w", err)
	}
	return out, nil
}
