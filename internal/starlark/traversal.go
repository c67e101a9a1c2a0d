package starlark

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/leapstack-labs/gremlinql/pkg/gremlin"
	"go.starlark.net/starlark"
)

// openStop is the slice length reported to Starlark. A slice stop equal to
// it means the script left the stop open, which renders as -1.
const openStop = math.MaxInt32

// Traversal exposes a gremlin.Builder to Starlark. Unknown attributes append
// an attribute token, calling the traversal converts it into a function,
// and indexing or slicing appends an index token.
//
//	g.V().has("name", "marko").out("knows")[0:2]
type Traversal struct {
	builder *gremlin.Builder
}

var (
	_ starlark.HasAttrs  = (*Traversal)(nil)
	_ starlark.Callable  = (*Traversal)(nil)
	_ starlark.Mapping   = (*Traversal)(nil)
	_ starlark.Sliceable = (*Traversal)(nil)
)

// NewTraversal wraps a new builder created with opts.
func NewTraversal(opts ...gremlin.Option) *Traversal {
	return &Traversal{builder: gremlin.New(opts...)}
}

// WrapBuilder exposes an existing builder to Starlark.
func WrapBuilder(b *gremlin.Builder) *Traversal {
	return &Traversal{builder: b}
}

// Builder returns the wrapped builder.
func (t *Traversal) Builder() *gremlin.Builder { return t.builder }

func (t *Traversal) String() string       { return t.builder.String() }
func (t *Traversal) Type() string         { return "traversal" }
func (t *Traversal) Freeze()              {}
func (t *Traversal) Truth() starlark.Bool { return starlark.True }
func (t *Traversal) Name() string         { return "traversal" }

func (t *Traversal) Hash() (uint32, error) {
	return 0, errors.New("unhashable type: traversal")
}

// traversalMethod is a builder operation that cannot be expressed as
// attribute access, call or indexing.
type traversalMethod func(t *Traversal, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

var traversalMethods = map[string]traversalMethod{
	"bind":                traversalBind,
	"func":                traversalFunc((*gremlin.Builder).Func),
	"func_raw":            traversalFunc((*gremlin.Builder).FuncRaw),
	"unbound":             traversalFunc((*gremlin.Builder).Unbound),
	"func_raw_unbound":    traversalFunc((*gremlin.Builder).FuncRawUnbound),
	"range":               traversalRange,
	"close":               traversalClose,
	"raw":                 traversalRaw,
	"set_graph_variable":  traversalSetGraphVariable,
	"set_return_variable": traversalSetReturnVariable,
	"reset":               traversalReset,
}

// Attr returns a builder method for reserved names and appends an
// attribute token for anything else.
func (t *Traversal) Attr(name string) (starlark.Value, error) {
	if m, ok := traversalMethods[name]; ok {
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return m(t, fn, args, kwargs)
		}), nil
	}
	t.builder.Attr(name)
	return t, nil
}

// AttrNames lists the reserved builder methods.
func (t *Traversal) AttrNames() []string {
	names := make([]string, 0, len(traversalMethods))
	for name := range traversalMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallInternal converts the preceding attribute into a function call.
func (t *Traversal) CallInternal(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, errors.New("traversal call does not accept keyword arguments")
	}
	goArgs, err := tupleToGo(args)
	if err != nil {
		return nil, err
	}
	t.builder.Call(goArgs...)
	return t, nil
}

// Get implements x[key].
func (t *Traversal) Get(key starlark.Value) (starlark.Value, bool, error) {
	k, err := ToGo(key)
	if err != nil {
		return nil, false, err
	}
	t.builder.Index(k)
	return t, true, nil
}

// Index implements starlark.Indexable for slicing. Plain indexing goes
// through Get.
func (t *Traversal) Index(i int) starlark.Value {
	t.builder.Index(int64(i))
	return t
}

// Len reports a length large enough that slice bounds are never clamped.
func (t *Traversal) Len() int { return openStop }

// Slice implements x[start:stop:step]. The step does not render; a negative
// step fails at render since an open stop cannot run backwards.
func (t *Traversal) Slice(start, end, step int) starlark.Value {
	stop := int64(end)
	if end >= openStop {
		stop = -1
	}
	t.builder.Slice(int64(start), stop, int64(step))
	return t
}

func tupleToGo(args starlark.Tuple) ([]any, error) {
	out := make([]any, len(args))
	for i, arg := range args {
		v, err := ToGo(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func traversalBind(t *Traversal, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	var name string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "value", &value, "name?", &name); err != nil {
		return nil, err
	}
	v, err := ToGo(value)
	if err != nil {
		return nil, err
	}
	placeholder, bound := t.builder.BindNamed(name, v)
	if sv, err := GoToStarlark(bound); err == nil {
		value = sv
	}
	return starlark.Tuple{starlark.String(placeholder), value}, nil
}

func traversalFunc(op func(b *gremlin.Builder, name string, args ...any) *gremlin.Builder) traversalMethod {
	return func(t *Traversal, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("%s: missing function name", fn.Name())
		}
		name, ok := starlark.AsString(args[0])
		if !ok {
			return nil, fmt.Errorf("%s: function name must be a string, got %s", fn.Name(), args[0].Type())
		}
		goArgs, err := tupleToGo(args[1:])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		op(t.builder, name, goArgs...)
		return t, nil
	}
}

func traversalRange(t *Traversal, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start, end starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &start, &end); err != nil {
		return nil, err
	}
	goArgs, err := tupleToGo(starlark.Tuple{start, end})
	if err != nil {
		return nil, err
	}
	t.builder.Range(goArgs[0], goArgs[1])
	return t, nil
}

func traversalClose(t *Traversal, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: missing closure body", fn.Name())
	}
	body, err := ToGo(args[0])
	if err != nil {
		return nil, err
	}
	params := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		p, ok := starlark.AsString(arg)
		if !ok {
			return nil, fmt.Errorf("%s: closure parameters must be strings, got %s", fn.Name(), arg.Type())
		}
		params = append(params, p)
	}
	t.builder.Close(body, params...)
	return t, nil
}

func traversalRaw(t *Traversal, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &value); err != nil {
		return nil, err
	}
	v, err := ToGo(value)
	if err != nil {
		return nil, err
	}
	t.builder.Raw(v)
	return t, nil
}

func traversalSetGraphVariable(t *Traversal, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	t.builder.SetGraphVariable(name)
	return t, nil
}

func traversalSetReturnVariable(t *Traversal, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	t.builder.SetReturnVariable(name)
	return t, nil
}

func traversalReset(t *Traversal, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	t.builder.Reset()
	return t, nil
}
