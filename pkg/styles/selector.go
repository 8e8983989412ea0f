package styles

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

var (
	ErrUnknownTheme   = errors.New("styles: unknown theme")
	ErrUnknownVariant = errors.New("styles: unknown variant")
)

type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

// Selector resolves theme selections from registered manifests. Manifests are
// validated through a go-theme registry on Register.
type Selector struct {
	mu        sync.RWMutex
	registry  manifestRegistry
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector returns a selector preloaded with the builtin manifests. Unknown
// theme names resolve to fallback when it is set.
func NewSelector(fallback string) *Selector {
	s := &Selector{
		registry:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest),
		fallback:  fallback,
	}
	for _, manifest := range Builtin() {
		s.MustRegister(manifest)
	}
	return s
}

// Register adds or replaces a manifest.
func (s *Selector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("styles: manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; !exists {
		if err := s.registry.Register(manifest); err != nil {
			return fmt.Errorf("styles: register %q: %w", manifest.Name, err)
		}
	}
	s.manifests[manifest.Name] = manifest
	return nil
}

// MustRegister panics when Register fails.
func (s *Selector) MustRegister(manifest *theme.Manifest) {
	if err := s.Register(manifest); err != nil {
		panic(err)
	}
}

// Names lists the registered manifests in lexical order.
func (s *Selector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.ToLower(strings.TrimSpace(name))
	manifest, ok := s.manifests[name]
	if !ok && s.fallback != "" {
		name = s.fallback
		manifest, ok = s.manifests[name]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q on %q", ErrUnknownVariant, variant, name)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection: variant tokens and templates override
// the base manifest, fallbacks fill partials neither defines.
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := maps.Clone(manifest.Tokens)
	if tokens == nil {
		tokens = make(map[string]string)
	}
	partials := make(map[string]string, len(manifest.Templates)+len(fallbacks))
	maps.Copy(partials, manifest.Templates)

	prefix := manifest.Assets.Prefix
	files := maps.Clone(manifest.Assets.Files)
	if files == nil {
		files = make(map[string]string)
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(tokens, variant.Tokens)
		maps.Copy(partials, variant.Templates)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		maps.Copy(files, variant.Assets.Files)
	}
	for key, value := range fallbacks {
		if _, ok := partials[key]; !ok {
			partials[key] = value
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

var (
	defaultOnce     sync.Once
	defaultSelector *Selector
)

// ForFramework returns the class tokens of a builtin framework. Unknown names
// resolve to the plain manifest.
func ForFramework(name string) Classes {
	defaultOnce.Do(func() {
		defaultSelector = NewSelector(FrameworkPlain)
	})
	selection, err := defaultSelector.Select(name, "")
	if err != nil {
		return Classes(PlainManifest().Tokens)
	}
	return Classes(maps.Clone(selection.Manifest.Tokens))
}
