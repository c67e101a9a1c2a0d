package gremlin

// Statement is a prebuilt fragment that appends itself to a builder.
//
// Statements passed as values (function arguments, closure bodies, raw
// values) are applied to a fresh sub-builder that follows the enclosing
// builder's conventions, and render as that sub-builder's text.
type Statement interface {
	Apply(b *Builder) *Builder
}
