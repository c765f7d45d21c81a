package form

import (
	"net/url"
	"strconv"
)

// Field pairs a submitted field name with the filter it must pass.
type Field struct {
	Key    string
	Filter Filter
}

// Definition is an ordered set of fields validated together.
type Definition struct {
	fields []Field
	index  map[string]int
}

// NewDefinition creates a definition from the given fields.
func NewDefinition(fields ...Field) *Definition {
	d := &Definition{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		d.Add(f.Key, f.Filter)
	}
	return d
}

// Add appends a field, replacing the filter if the key already exists.
func (d *Definition) Add(key string, filter Filter) {
	if i, ok := d.index[key]; ok {
		d.fields[i].Filter = filter
		return
	}
	d.index[key] = len(d.fields)
	d.fields = append(d.fields, Field{Key: key, Filter: filter})
}

// Has reports whether key is part of the definition.
func (d *Definition) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Keys returns the field names in definition order.
func (d *Definition) Keys() []string {
	keys := make([]string, len(d.fields))
	for i, f := range d.fields {
		keys[i] = f.Key
	}
	return keys
}

// Validate runs every field filter against values in one pass. Missing and
// invalid fields are present in the result with a nil value.
func (d *Definition) Validate(values url.Values) *Result {
	r := newResult(len(d.fields))
	for _, f := range d.fields {
		raw, present := values[f.Key]
		if !present || len(raw) == 0 {
			r.Set(f.Key, nil)
			continue
		}
		v, ok := f.Filter.Apply(raw[0])
		if !ok {
			v = nil
		}
		r.Set(f.Key, v)
	}
	return r
}

// Result holds validated values keyed by field name, in insertion order.
type Result struct {
	keys   []string
	values map[string]any
}

func newResult(n int) *Result {
	return &Result{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

// Set stores v under key, keeping the original position of existing keys.
func (r *Result) Set(key string, v any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value of key; nil when absent or invalid.
func (r *Result) Get(key string) any {
	return r.values[key]
}

// Keys returns the field names in insertion order.
func (r *Result) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// String returns the value of key formatted for storage.
func (r *Result) String(key string) string {
	return Encode(r.values[key])
}

// Bool returns the value of key interpreted as a boolean.
func (r *Result) Bool(key string) bool {
	return ToBool(Encode(r.values[key]))
}

// IsEmpty reports whether v counts as empty: nil, false, zero, "" or "0".
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case int64:
		return t == 0
	case int:
		return t == 0
	case float64:
		return t == 0
	case string:
		return t == "" || t == "0"
	}
	return false
}

// Encode formats a validated value as the string kept in the metadata store.
func Encode(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "1"
		}
		return ""
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	}
	return ""
}

// ToBool interprets a stored value as a boolean using the Bool filter rules;
// values that do not validate are false.
func ToBool(s string) bool {
	v, ok := Bool().Apply(s)
	return ok && v.(bool)
}

// ToInt interprets a stored value as an integer; non-numeric values are 0.
func ToInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return int64(f)
	}
	return n
}

// ToFloat interprets a stored value as a float; non-numeric values are 0.
func ToFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
