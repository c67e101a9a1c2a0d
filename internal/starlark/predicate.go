package starlark

import (
	"errors"

	"github.com/leapstack-labs/gremlinql/pkg/gremlin"
	"go.starlark.net/starlark"
)

// Predicate exposes a gremlin.Predicate to Starlark as an immutable value
// with name and args attributes.
type Predicate struct {
	pred *gremlin.Predicate
}

var _ starlark.HasAttrs = (*Predicate)(nil)

// NewPredicateValue wraps p.
func NewPredicateValue(p *gremlin.Predicate) *Predicate {
	return &Predicate{pred: p}
}

// Predicate returns the wrapped predicate.
func (p *Predicate) Predicate() *gremlin.Predicate { return p.pred }

func (p *Predicate) String() string       { return p.pred.String() }
func (p *Predicate) Type() string         { return "predicate" }
func (p *Predicate) Freeze()              {}
func (p *Predicate) Truth() starlark.Bool { return starlark.True }

func (p *Predicate) Hash() (uint32, error) {
	return 0, errors.New("unhashable type: predicate")
}

func (p *Predicate) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(p.pred.Name()), nil
	case "args":
		v, err := GoToStarlark(p.pred.Args())
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, nil
	}
}

func (p *Predicate) AttrNames() []string { return []string{"args", "name"} }
