package ops

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Params are operator arguments keyed by parameter name.
type Params map[string]any

// Decode fills dst from the params. Fields of dst hold the defaults and are
// only overwritten by keys present in p; unknown keys are an error.
func (p Params) Decode(dst any) error {
	if len(p) == 0 {
		return nil
	}
	data, err := yaml.Marshal(map[string]any(p))
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

// ParseParams parses "key=value" pairs. Values are read as YAML scalars or
// flow collections, so "count=3" is an int and "offset=[1,0,0]" a list.
func ParseParams(pairs []string) (Params, error) {
	p := make(Params, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", key, err)
		}
		p[key] = value
	}
	return p, nil
}
