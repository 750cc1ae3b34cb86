package jtdgen

import (
	"strconv"
	"strings"
)

// TypeConfig is the per-type configuration a front-end declares next to a
// type, e.g. the `+jtd:tag=kind` marker or a Reflector union registration.
type TypeConfig struct {
	Tag string
}

// ParseDirective parses a comma-separated key=value list such as
//
//	tag=kind
//	tag="kind"
//
// The only recognized key is "tag". An empty directive yields the zero
// TypeConfig. Malformed input fails with a KindConfig *Error.
func ParseDirective(directive string) (TypeConfig, error) {
	var cfg TypeConfig
	seen := map[string]bool{}
	for _, part := range strings.Split(directive, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return TypeConfig{}, newError(KindConfig, "", "expected key=value, got %q", part)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if uq, err := strconv.Unquote(value); err == nil {
			value = uq
		}
		if seen[key] {
			return TypeConfig{}, newError(KindConfig, "", "%s given more than once", key)
		}
		seen[key] = true
		switch key {
		case "tag":
			if value == "" {
				return TypeConfig{}, newError(KindConfig, "", "tag must not be empty")
			}
			cfg.Tag = value
		default:
			return TypeConfig{}, newError(KindConfig, "", "unknown key %q", key)
		}
	}
	return cfg, nil
}

// ResolveTagStrategy maps configuration onto a TagStrategy. It does not check
// the strategy against the shape; Synthesize does.
func ResolveTagStrategy(cfg TypeConfig) TagStrategy {
	if cfg.Tag == "" {
		return External()
	}
	return Internal(cfg.Tag)
}
