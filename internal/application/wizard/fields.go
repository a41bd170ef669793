package wizard

import (
	"encoding/json"
	"fmt"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
)

// Fields is one step's form data.  Values are string, []string (the
// pictogram multi-select) or []sds.LabelElement; anything else is rejected
// on decode.
type Fields map[string]interface{}

// String returns key as a string, or "".
func (f Fields) String(key string) string {
	if s, ok := f[key].(string); ok {
		return s
	}
	return ""
}

// Strings returns key as a string slice.  A single string is promoted to a
// one-element slice.
func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// LabelElements returns the label_elements entry.
func (f Fields) LabelElements() []sds.LabelElement {
	if els, ok := f[FieldLabelElements].([]sds.LabelElement); ok {
		out := make([]sds.LabelElement, len(els))
		copy(out, els)
		return out
	}
	return nil
}

// Clone deep-copies f.  A nil map clones to nil.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		switch t := v.(type) {
		case []string:
			c := make([]string, len(t))
			copy(c, t)
			out[k] = c
		case []sds.LabelElement:
			c := make([]sds.LabelElement, len(t))
			copy(c, t)
			out[k] = c
		default:
			out[k] = v
		}
	}
	return out
}

// UnmarshalJSON restores the typed values Fields carries, so a state
// round-tripped through a session store compares equal to the original.
func (f *Fields) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*f = nil
		return nil
	}
	out := make(Fields, len(raw))
	for k, msg := range raw {
		switch k {
		case FieldLabelElements:
			var els []sds.LabelElement
			if err := json.Unmarshal(msg, &els); err != nil {
				return fmt.Errorf("field %q: %w", k, err)
			}
			if els == nil {
				els = []sds.LabelElement{}
			}
			out[k] = els
		case FieldAdditionalPictograms:
			var keys []string
			if err := json.Unmarshal(msg, &keys); err != nil {
				// Single-choice submissions arrive as a bare string.
				var one string
				if err2 := json.Unmarshal(msg, &one); err2 != nil {
					return fmt.Errorf("field %q: %w", k, err)
				}
				if one != "" {
					keys = []string{one}
				}
			}
			if keys == nil {
				keys = []string{}
			}
			out[k] = keys
		default:
			var s *string
			if err := json.Unmarshal(msg, &s); err != nil {
				return fmt.Errorf("field %q must be a string", k)
			}
			if s != nil {
				out[k] = *s
			} else {
				out[k] = ""
			}
		}
	}
	*f = out
	return nil
}

//Personal.AI order the ending
