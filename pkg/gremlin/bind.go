package gremlin

import "fmt"

// BindParam binds value under a generated name and returns the name and value.
//
// Passing a name returned by an earlier bind is a back-reference: the
// existing binding is reused instead of binding the name as a new literal.
// Bindings are propagated to every ancestor builder.
func (b *Builder) BindParam(value any) (string, any) {
	return b.bind(value, "")
}

// BindNamed binds value under an explicit name.
func (b *Builder) BindNamed(name string, value any) (string, any) {
	return b.bind(value, name)
}

// BindParams binds each value and returns the generated names in order.
func (b *Builder) BindParams(values ...any) []string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i], _ = b.bind(v, "")
	}
	return names
}

func (b *Builder) bind(value any, name string) (string, any) {
	if key, ok := value.(string); ok && (name == "" || name == key) {
		if existing, found := b.params.Get(key); found {
			name, value = key, existing
		}
	}

	if name == "" {
		b.counter++
		name = fmt.Sprintf("%s_%s_%d", b.prefix, b.seed, b.counter)
	}

	b.params.set(name, value)
	b.logger.Debug("bound parameter", "name", name, "seed", b.seed)

	if b.parent != nil {
		b.parent.bind(value, name)
	}

	return name, value
}

// SetParent records parent as the builder this one is nested in and copies
// every existing binding into it. A parent that is already nested inside b
// is rejected with a CycleError on both builders.
func (b *Builder) SetParent(parent *Builder) *Builder {
	if parent == nil {
		b.parent = nil
		return b
	}

	for a := parent; a != nil; a = a.parent {
		if a == b {
			err := &CycleError{Seed: b.seed}
			b.fail(err)
			parent.fail(err)
			return b
		}
	}

	b.parent = parent
	for _, name := range b.params.names {
		parent.bind(b.params.values[name], name)
	}

	return b
}

// Parent returns the builder this one is nested in, or nil.
func (b *Builder) Parent() *Builder {
	return b.parent
}
