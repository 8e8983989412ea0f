package form

import (
	"log/slog"
	"net/url"

	"github.com/goliatone/go-dynamicform/pkg/controls"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

// UnknownTypePolicy decides what happens to descriptors whose type is outside
// the supported set.
type UnknownTypePolicy int

const (
	// SkipUnknown omits the field: no row, no label, no error entry.
	SkipUnknown UnknownTypePolicy = iota
	// RejectUnknown makes New fail with ErrUnsupportedFieldType.
	RejectUnknown
)

// ParseUnknownTypePolicy maps "skip"/"reject" onto a policy.
func ParseUnknownTypePolicy(raw string) (UnknownTypePolicy, bool) {
	switch raw {
	case "", "skip":
		return SkipUnknown, true
	case "reject":
		return RejectUnknown, true
	default:
		return SkipUnknown, false
	}
}

type Option func(*config)

type config struct {
	engine   validation.Engine
	mode     validation.Mode
	policy   UnknownTypePolicy
	logger   *slog.Logger
	controls *controls.Set
	values   url.Values
}

// WithEngine supplies the Validation Engine. Defaults to validation.New seeded
// with the descriptor defaults.
func WithEngine(engine validation.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithMode sets the validation mode of the default engine.
func WithMode(mode validation.Mode) Option {
	return func(cfg *config) {
		if mode != "" {
			cfg.mode = mode
		}
	}
}

// WithUnknownTypePolicy selects how unsupported field types are handled.
func WithUnknownTypePolicy(policy UnknownTypePolicy) Option {
	return func(cfg *config) {
		cfg.policy = policy
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithControls reuses an existing control state set.
func WithControls(set *controls.Set) Option {
	return func(cfg *config) {
		if set != nil {
			cfg.controls = set
		}
	}
}

// WithValues overrides the initial values, typically with a previous
// submission. Seeded values are not validated and do not mark fields dirty.
func WithValues(values url.Values) Option {
	return func(cfg *config) {
		cfg.values = values
	}
}
