package starlark

import (
	"fmt"

	"github.com/leapstack-labs/gremlinql/pkg/gremlin"
	"go.starlark.net/starlark"
)

// predicateArity is the number of arguments each named predicate takes.
// -1 means any number.
var predicateArity = map[string]int{
	gremlin.PredicateEq:      1,
	gremlin.PredicateNeq:     1,
	gremlin.PredicateLt:      1,
	gremlin.PredicateLte:     1,
	gremlin.PredicateGt:      1,
	gremlin.PredicateGte:     1,
	gremlin.PredicateInside:  2,
	gremlin.PredicateOutside: 2,
	gremlin.PredicateBetween: 2,
	gremlin.PredicateWithin:  -1,
	gremlin.PredicateWithout: -1,
}

// predicateBuiltin returns the Starlark builtin for a named predicate.
func predicateBuiltin(name string, arity int) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
		}
		if arity >= 0 && len(args) != arity {
			return nil, fmt.Errorf("%s: got %d arguments, want %d", fn.Name(), len(args), arity)
		}
		goArgs, err := tupleToGo(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		p, _ := gremlin.LookupPredicate(name, goArgs...)
		return NewPredicateValue(p), nil
	})
}

// builtinP builds a predicate with any function name: P("startingWith", "ma").
func builtinP(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: missing predicate name", fn.Name())
	}
	name, ok := starlark.AsString(args[0])
	if !ok {
		return nil, fmt.Errorf("%s: predicate name must be a string, got %s", fn.Name(), args[0].Type())
	}
	goArgs, err := tupleToGo(args[1:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	if p, ok := gremlin.LookupPredicate(name, goArgs...); ok {
		return NewPredicateValue(p), nil
	}
	return NewPredicateValue(gremlin.NewPredicate(name, goArgs...)), nil
}

// graphBuiltin returns graph(name=?), which starts a new traversal with the
// script's builder options. graph(name="") starts an anonymous traversal.
func graphBuiltin(opts []gremlin.Option) *starlark.Builtin {
	return starlark.NewBuiltin("graph", func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name starlark.Value = starlark.None
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name?", &name); err != nil {
			return nil, err
		}
		t := NewTraversal(opts...)
		if name != starlark.None {
			s, ok := starlark.AsString(name)
			if !ok {
				return nil, fmt.Errorf("%s: name must be a string, got %s", fn.Name(), name.Type())
			}
			t.builder.SetGraphVariable(s)
		}
		return t, nil
	})
}

// Predeclared returns the globals every traversal script sees:
// the traversal g, graph(), P() and one builtin per named predicate.
func Predeclared(g *Traversal, opts []gremlin.Option) starlark.StringDict {
	globals := starlark.StringDict{
		"g":     g,
		"graph": graphBuiltin(opts),
		"P":     starlark.NewBuiltin("P", builtinP),
	}
	for name, arity := range predicateArity {
		globals[name] = predicateBuiltin(name, arity)
	}
	return globals
}
