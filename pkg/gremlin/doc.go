// Package gremlin builds Gremlin/Groovy traversal text with bind parameters.
//
// A Builder records a chain of tokens (attribute reads, function calls,
// index access, closures and raw text) and renders them into a single query
// string. Literal values passed as the last argument of a function are
// replaced by generated placeholders and collected into an ordered parameter
// map, so the query can be executed by a graph database client that supports
// bind variables.
//
// # Basic Usage
//
//	g := gremlin.New()
//	g.Func("V").Func("has", "name", "marko").Attr("outE").Call()
//	q, err := g.Render()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// q.Text:   g.V().has(name, GPY_PARAM_1a2b3_1).outE()
//	// q.Params: GPY_PARAM_1a2b3_1 -> "marko"
//
// # Nesting
//
// A Builder passed as an argument to another builder renders as a
// sub-expression and hands all of its bindings to the enclosing builder:
//
//	inner := gremlin.New(gremlin.WithGraphVariable(""))
//	inner.Func("out", "knows")
//	g := gremlin.New()
//	g.Func("V").Func("repeat", inner)
//
// # Predicates
//
// Comparison predicates (Eq, Lt, Between, Within, ...) render as
// name(args...) and bind their literal arguments into the enclosing builder.
package gremlin
