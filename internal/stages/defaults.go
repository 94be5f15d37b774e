package stages

import (
	"fmt"

	"github.com/pktechnic/erpdoc/internal/core/ports/driven"
	"github.com/pktechnic/erpdoc/internal/stages/assemble"
	"github.com/pktechnic/erpdoc/internal/stages/fields"
	"github.com/pktechnic/erpdoc/internal/stages/items"
	"github.com/pktechnic/erpdoc/internal/stages/reconcile"
)

// DefaultOrder is the fixed stage order of the engine. Items reads the
// document number resolved by fields; reconcile reads the table bounds
// and items; assemble reads everything.
var DefaultOrder = []string{fields.Name, items.Name, reconcile.Name, assemble.Name}

// RegisterDefaults registers all built-in stages with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(fields.Name, func(map[string]any) (driven.Stage, error) {
		return fields.New(), nil
	})
	r.Register(items.Name, buildItems)
	r.Register(reconcile.Name, buildReconcile)
	r.Register(assemble.Name, func(map[string]any) (driven.Stage, error) {
		return assemble.New(), nil
	})
}

// buildItems creates the item stage from generic config.
// Supported config keys:
//   - fold_remarks (bool): fold continuation lines into items (default: true)
func buildItems(cfg map[string]any) (driven.Stage, error) {
	var opts []items.Option
	if v, ok := getBoolFromConfig(cfg, "fold_remarks"); ok {
		opts = append(opts, items.WithRemarks(v))
	}
	return items.New(opts...), nil
}

// buildReconcile creates the reconciler from generic config.
// Supported config keys:
//   - unlabeled_fallback (bool): largest-amount total fallback (default: true)
func buildReconcile(cfg map[string]any) (driven.Stage, error) {
	var opts []reconcile.Option
	if v, ok := getBoolFromConfig(cfg, "unlabeled_fallback"); ok {
		opts = append(opts, reconcile.WithUnlabeledFallback(v))
	}
	return reconcile.New(opts...), nil
}

// NewDefaultPipeline builds the stages of DefaultOrder from r. cfg maps a
// stage name to its settings and may be nil.
func NewDefaultPipeline(r *Registry, cfg map[string]map[string]any) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range DefaultOrder {
		stage, err := r.Build(name, cfg[name])
		if err != nil {
			return nil, fmt.Errorf("building stage %s: %w", name, err)
		}
		p.Add(stage)
	}
	return p, nil
}

// getBoolFromConfig extracts a bool from a generic config map. Strings
// "true" and "false" are accepted as written by `config set`.
func getBoolFromConfig(cfg map[string]any, key string) (bool, bool) {
	val, ok := cfg[key]
	if !ok {
		return false, false
	}

	switch v := val.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
