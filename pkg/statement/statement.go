// Package statement provides declarative statements that apply prebuilt
// traversal fragments to a gremlin.Builder.
//
// Statements can be written in Go with Func and Chain, or loaded from YAML
// step files:
//
//	name: friends
//	return_variable: friends
//	steps:
//	  - func: V
//	  - func: has
//	    args: [name, marko]
//	  - attr: out
//	  - call: [knows]
//	  - func: has
//	    args: [age, {predicate: gt, args: [30]}]
package statement

import "github.com/leapstack-labs/gremlinql/pkg/gremlin"

// Func adapts a function to gremlin.Statement.
type Func func(b *gremlin.Builder) *gremlin.Builder

// Apply calls f with b. A nil f leaves b unchanged.
func (f Func) Apply(b *gremlin.Builder) *gremlin.Builder {
	if f == nil {
		return b
	}
	return f(b)
}

// Chain applies statements in order to the same builder.
type Chain []gremlin.Statement

// Apply applies every statement in the chain to b.
func (c Chain) Apply(b *gremlin.Builder) *gremlin.Builder {
	for _, s := range c {
		if s == nil {
			continue
		}
		b.ApplyStatement(s)
	}
	return b
}
