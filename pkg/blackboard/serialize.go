package blackboard

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ucarion/jcs"
)

// render produces the debug string for a single entry's value. Numeric,
// string, and bool values render with their natural text form; a type
// implementing fmt.Stringer renders via that; anything else falls back to
// a stable placeholder naming its Go type for values with no sensible
// string form.
func render(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(vv)
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("Object of Type [%T]", v)
}

// Serialize renders the blackboard as a single-line, JSON-shaped object
// whose keys and values are emitted verbatim, without escaping. Key order
// is unspecified. This is the lossy legacy rendering, kept as the default
// for compatibility with older consumers expecting non-strict-JSON output.
// Prefer SerializeJSON for output that must parse as JSON.
func (b *Blackboard) Serialize() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for k, e := range b.entries {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteByte('"')
		sb.WriteString(k)
		sb.WriteString("\": \"")
		sb.WriteString(render(e.value))
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String()
}

// stringRendering builds the map[string]string view of the blackboard that
// backs both SerializeJSON and SerializeCanonical: every entry rendered to
// its debug string, exactly as Serialize does, but as a real map so it can
// be handed to a JSON encoder instead of hand-assembled.
func (b *Blackboard) stringRendering() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]string, len(b.entries))
	for k, e := range b.entries {
		out[k] = render(e.value)
	}
	return out
}

// SerializeJSON renders the blackboard as strict, escaped JSON: the same
// key/value-as-string shape as Serialize, but produced by encoding/json so
// keys and values containing quotes, backslashes, or control characters
// round-trip correctly.
func (b *Blackboard) SerializeJSON() (string, error) {
	data, err := json.Marshal(b.stringRendering())
	if err != nil {
		return "", fmt.Errorf("blackboard: serialize json: %w", err)
	}
	return string(data), nil
}

// SerializeCanonical renders the blackboard as RFC 8785 (JSON Canonicalization
// Scheme) JSON: strict escaping plus a deterministic key order, so two
// blackboards with the same entries always serialize to byte-identical
// output regardless of map iteration order. Useful for hashing a
// blackboard's contents or asserting determinism across runs.
func (b *Blackboard) SerializeCanonical() (string, error) {
	rendering := b.stringRendering()

	data, err := json.Marshal(rendering)
	if err != nil {
		return "", fmt.Errorf("blackboard: serialize canonical: %w", err)
	}

	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return "", fmt.Errorf("blackboard: serialize canonical: %w", err)
	}

	canonical, err := jcs.Format(normalized)
	if err != nil {
		return "", fmt.Errorf("blackboard: serialize canonical: %w", err)
	}
	return string(canonical), nil
}
