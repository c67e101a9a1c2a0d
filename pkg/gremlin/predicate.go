package gremlin

// Predicate names understood by Gremlin's P class.
const (
	PredicateEq      = "eq"
	PredicateNeq     = "neq"
	PredicateLt      = "lt"
	PredicateLte     = "lte"
	PredicateGt      = "gt"
	PredicateGte     = "gte"
	PredicateInside  = "inside"
	PredicateOutside = "outside"
	PredicateBetween = "between"
	PredicateWithin  = "within"
	PredicateWithout = "without"
)

// predicateType is the type name reported for predicates built by NewPredicate.
const predicateType = "Predicate"

// Predicate is a comparison such as eq(x) or between(a, b) used as an
// argument value. Its literal arguments are bound into the builder it is
// passed to.
type Predicate struct {
	typ  string
	name string
	args []any
}

// NewPredicate creates a predicate rendered as name(args...). A predicate
// with an empty name fails to render with a ConfigError.
func NewPredicate(name string, args ...any) *Predicate {
	return &Predicate{typ: predicateType, name: name, args: args}
}

func named(name string, args []any) *Predicate {
	return &Predicate{typ: name, name: name, args: args}
}

var predicateNames = map[string]struct{}{
	PredicateEq: {}, PredicateNeq: {},
	PredicateLt: {}, PredicateLte: {}, PredicateGt: {}, PredicateGte: {},
	PredicateInside: {}, PredicateOutside: {}, PredicateBetween: {},
	PredicateWithin: {}, PredicateWithout: {},
}

// LookupPredicate returns the named predicate for one of the Predicate*
// names, or false if name is not one of them.
func LookupPredicate(name string, args ...any) (*Predicate, bool) {
	if _, ok := predicateNames[name]; !ok {
		return nil, false
	}
	return named(name, args), true
}

// Eq matches values equal to v.
func Eq(v any) *Predicate { return named(PredicateEq, []any{v}) }

// Neq matches values not equal to v.
func Neq(v any) *Predicate { return named(PredicateNeq, []any{v}) }

// Lt matches values less than v.
func Lt(v any) *Predicate { return named(PredicateLt, []any{v}) }

// Lte matches values less than or equal to v.
func Lte(v any) *Predicate { return named(PredicateLte, []any{v}) }

// Gt matches values greater than v.
func Gt(v any) *Predicate { return named(PredicateGt, []any{v}) }

// Gte matches values greater than or equal to v.
func Gte(v any) *Predicate { return named(PredicateGte, []any{v}) }

// Inside matches values strictly between low and high.
func Inside(low, high any) *Predicate { return named(PredicateInside, []any{low, high}) }

// Outside matches values below low or above high.
func Outside(low, high any) *Predicate { return named(PredicateOutside, []any{low, high}) }

// Between matches values in [low, high).
func Between(low, high any) *Predicate { return named(PredicateBetween, []any{low, high}) }

// Within matches values contained in values.
func Within(values ...any) *Predicate { return named(PredicateWithin, values) }

// Without matches values not contained in values.
func Without(values ...any) *Predicate { return named(PredicateWithout, values) }

// Name returns the rendered function name.
func (p *Predicate) Name() string { return p.name }

// Type returns the predicate type used in error messages.
func (p *Predicate) Type() string { return p.typ }

// Args returns the predicate arguments as given.
func (p *Predicate) Args() []any { return p.args }

func (p *Predicate) missingName() error {
	return NewConfigError(p.typ, "predicate does not have a function name")
}

// Render returns name(args...) with arguments as literal text. Inside a
// builder the arguments are bound instead.
func (p *Predicate) Render() (string, error) {
	if p.name == "" {
		return "", p.missingName()
	}
	var out printer
	out.write(p.name)
	out.write("(")
	_ = out.formatList(len(p.args), func(i int) (string, error) {
		return formatLiteral(p.args[i]), nil
	}, ", ")
	out.write(")")
	return out.String(), nil
}

// String returns the rendered predicate, or "" if it has no name.
func (p *Predicate) String() string {
	s, _ := p.Render()
	return s
}
