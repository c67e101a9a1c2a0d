package gremlin

import (
	"log/slog"
	"reflect"

	"github.com/google/uuid"
)

// Default builder configuration.
const (
	DefaultGraphVariable = "g"
	DefaultParamPrefix   = "GPY_PARAM"
)

// seedLength is the number of trailing UUID characters used as a namespace seed.
const seedLength = 5

// Option configures a Builder.
type Option func(*Builder)

// WithGraphVariable sets the name the chain starts with. An empty name drops
// the graph variable and its trailing separator.
func WithGraphVariable(name string) Option {
	return func(b *Builder) {
		b.SetGraphVariable(name)
	}
}

// WithReturnVariable renders the query as an assignment "name = ...".
func WithReturnVariable(name string) Option {
	return func(b *Builder) {
		b.returnVariable = name
	}
}

// WithParamPrefix sets the prefix of generated parameter names.
func WithParamPrefix(prefix string) Option {
	return func(b *Builder) {
		if prefix != "" {
			b.prefix = prefix
		}
	}
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder assembles a traversal as a chain of tokens and collects the bind
// parameters its literals were replaced with.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	graphVariable  string
	returnVariable string
	prefix         string
	logger         *slog.Logger

	tokens []*token
	last   int

	params  *Params
	seed    string
	counter int
	parent  *Builder

	err error
}

// New creates a Builder whose chain holds only the graph variable.
func New(opts ...Option) *Builder {
	b := &Builder{
		graphVariable: DefaultGraphVariable,
		prefix:        DefaultParamPrefix,
		logger:        slog.New(slog.DiscardHandler),
	}
	b.Reset()
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Reset clears the chain, the parameters, the parent and the return
// variable. The graph variable is kept.
func (b *Builder) Reset() *Builder {
	gv := newToken(kindGraphVariable)
	gv.name = b.graphVariable

	b.tokens = []*token{gv}
	b.last = head
	b.params = newParams()
	b.seed = newSeed()
	b.counter = 0
	b.parent = nil
	b.returnVariable = ""
	b.err = nil
	return b
}

func newSeed() string {
	id := uuid.NewString()
	return id[len(id)-seedLength:]
}

// sub creates a builder that follows this builder's conventions.
func (b *Builder) sub() *Builder {
	return New(
		WithGraphVariable(b.graphVariable),
		WithParamPrefix(b.prefix),
		WithLogger(b.logger),
	)
}

// fail records the first error; later errors are dropped.
func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns the first error recorded while building.
func (b *Builder) Err() error {
	return b.err
}

// GraphVariable returns the configured graph variable name.
func (b *Builder) GraphVariable() string {
	return b.graphVariable
}

// SetGraphVariable changes the name the chain starts with.
func (b *Builder) SetGraphVariable(name string) *Builder {
	b.graphVariable = name
	b.tokens[head].name = name
	return b
}

// ReturnVariable returns the assignment target, or "".
func (b *Builder) ReturnVariable() string {
	return b.returnVariable
}

// SetReturnVariable renders the query as "name = ...". An empty name removes the assignment.
func (b *Builder) SetReturnVariable(name string) *Builder {
	b.returnVariable = name
	return b
}

// Params returns the parameters bound so far.
func (b *Builder) Params() *Params {
	return b.params
}

// Seed returns the namespace seed used in generated parameter names.
func (b *Builder) Seed() string {
	return b.seed
}

// Attr appends a property read: g.name.
func (b *Builder) Attr(name string) *Builder {
	t := newToken(kindAttribute)
	t.name = name
	return b.add(t)
}

// Call turns the most recent attribute into a function call with args, so
// that Attr("out").Call("knows") renders as out(<placeholder>).
func (b *Builder) Call(args ...any) *Builder {
	attr := b.tokens[b.last]
	if attr.kind != kindAttribute {
		b.fail(NewStructureErrorf("call", "no attribute to call, last token is %s", attr.kind))
		return b
	}

	fn := b.function(kindFunction, attr.name, args)
	b.spliceOut(b.last)
	return b.add(fn)
}

// Func appends a function call whose last scalar argument is bound.
func (b *Builder) Func(name string, args ...any) *Builder {
	return b.add(b.function(kindFunction, name, args))
}

// FuncRaw is Func without the leading separator.
func (b *Builder) FuncRaw(name string, args ...any) *Builder {
	return b.add(b.function(kindFunctionRaw, name, args))
}

// Unbound appends a function call whose arguments are all rendered as literal text.
func (b *Builder) Unbound(name string, args ...any) *Builder {
	return b.add(b.function(kindUnboundFunction, name, args))
}

// FuncRawUnbound is Unbound without the leading separator.
func (b *Builder) FuncRawUnbound(name string, args ...any) *Builder {
	return b.add(b.function(kindUnboundFunctionRaw, name, args))
}

// Range appends range(start, end) without a separator or bindings.
func (b *Builder) Range(start, end any) *Builder {
	return b.FuncRawUnbound("range", start, end)
}

func (b *Builder) function(kind tokenKind, name string, args []any) *token {
	t := newToken(kind)
	t.name = name
	t.args = make([]value, len(args))
	for i, arg := range args {
		t.args[i] = b.normalize(arg, t.canBind && i == len(args)-1)
	}
	return t
}

// Index appends [key].
func (b *Builder) Index(key any) *Builder {
	t := newToken(kindIndex)
	t.index = indexKey{start: key}
	return b.add(t)
}

// Slice appends [start..stop]. A nil stop renders as a single index. The
// step is accepted for parity with slice syntax and does not render; a
// negative step records a StructureError since ranges cannot run backwards.
func (b *Builder) Slice(start, stop, step any) *Builder {
	if isNegativeInt(step) {
		b.fail(NewStructureErrorf("slice", "negative step %v is not supported", step))
	}
	t := newToken(kindIndex)
	t.index = indexKey{start: start, stop: stop}
	return b.add(t)
}

func isNegativeInt(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() < 0
	default:
		return false
	}
}

// Close appends a closure {body}, or {p1,p2 -> body} when params are given.
// body may be text, a nested Builder or a Statement.
func (b *Builder) Close(body any, params ...string) *Builder {
	kind := kindClosure
	if len(params) > 0 {
		kind = kindClosureArguments
	}
	t := newToken(kind)
	t.value = b.normalize(body, false)
	t.params = params
	return b.add(t)
}

// Raw appends value verbatim. The token after a raw token gets no separator.
func (b *Builder) Raw(value any) *Builder {
	t := newToken(kindRaw)
	t.value = b.normalize(value, false)
	return b.add(t)
}

// ApplyStatement lets s append its fragment to this builder.
func (b *Builder) ApplyStatement(s Statement) *Builder {
	if s == nil {
		return b
	}
	if s.Apply(b) == nil {
		b.fail(NewStructureErrorf("statement", "%T returned no builder", s))
	}
	return b
}

// Query is a rendered traversal and the parameters its placeholders refer to.
type Query struct {
	Text   string
	Params *Params
}

// Render produces the query text and a snapshot of the bound parameters.
func (b *Builder) Render() (*Query, error) {
	text, err := b.render(make(map[*Builder]bool))
	if err != nil {
		return nil, err
	}
	return &Query{Text: text, Params: b.params.clone()}, nil
}

// String returns the rendered text, or "" when the builder cannot render.
// Use Render to get the error.
func (b *Builder) String() string {
	text, err := b.render(make(map[*Builder]bool))
	if err != nil {
		return ""
	}
	return text
}
