package gremlin

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Params is an insertion-ordered map of bind parameter names to values.
type Params struct {
	names  []string
	values map[string]any
}

func newParams() *Params {
	return &Params{values: make(map[string]any)}
}

// set stores value under name, keeping the original position of an existing name.
func (p *Params) set(name string, value any) {
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = value
}

// Get returns the value bound to name.
func (p *Params) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Has reports whether name is bound.
func (p *Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Len returns the number of bound parameters.
func (p *Params) Len() int {
	return len(p.names)
}

// Names returns the parameter names in binding order.
func (p *Params) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// NameOf returns the first parameter name bound to value.
func (p *Params) NameOf(value any) (string, bool) {
	for _, name := range p.names {
		if sameValue(p.values[name], value) {
			return name, true
		}
	}
	return "", false
}

// Map returns a copy of the parameters as a plain map, suitable for
// passing to a client as bindings.
func (p *Params) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

func (p *Params) clone() *Params {
	out := &Params{
		names:  p.Names(),
		values: p.Map(),
	}
	return out
}

// MarshalJSON encodes the parameters as a JSON object in binding order.
func (p *Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// sameValue compares two values without panicking on uncomparable types.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
