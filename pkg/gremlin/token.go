package gremlin

// tokenKind identifies how a token renders and binds its arguments.
type tokenKind int

// tokenKind constants for every chain node variant.
const (
	kindGraphVariable      tokenKind = iota // g
	kindAttribute                           // .name
	kindFunction                            // .name(args, <bound last>)
	kindFunctionRaw                         // name(args, <bound last>)
	kindUnboundFunction                     // .name(args)
	kindUnboundFunctionRaw                  // name(args)
	kindIndex                               // [k] or [start..stop]
	kindClosure                             // {body}
	kindClosureArguments                    // {a,b -> body}
	kindRaw                                 // verbatim
)

func (k tokenKind) String() string {
	switch k {
	case kindGraphVariable:
		return "graph_variable"
	case kindAttribute:
		return "attribute"
	case kindFunction:
		return "function"
	case kindFunctionRaw:
		return "function_raw"
	case kindUnboundFunction:
		return "unbound_function"
	case kindUnboundFunctionRaw:
		return "unbound_function_raw"
	case kindIndex:
		return "index"
	case kindClosure:
		return "closure"
	case kindClosureArguments:
		return "closure_arguments"
	case kindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// concat is the separator written before a token of this kind.
func (k tokenKind) concat() string {
	switch k {
	case kindAttribute, kindFunction, kindUnboundFunction:
		return "."
	default:
		return ""
	}
}

// canBind reports whether the last scalar argument is replaced by a placeholder.
func (k tokenKind) canBind() bool {
	return k == kindFunction || k == kindFunctionRaw
}

// noToken terminates the chain.
const noToken = -1

// token is one node of the chain. Only next changes after construction.
type token struct {
	kind    tokenKind
	name    string  // graph variable, attribute or function name
	value   value   // closure body or raw value
	args    []value // function arguments
	params  []string
	index   indexKey
	concat  string
	canBind bool
	next    int
}

// indexKey holds a single key (stop == nil) or a range.
type indexKey struct {
	start any
	stop  any
}

func newToken(kind tokenKind) *token {
	return &token{
		kind:    kind,
		concat:  kind.concat(),
		canBind: kind.canBind(),
		next:    noToken,
	}
}

// render returns the token's own text, without its separator.
func (t *token) render(b *Builder, visiting map[*Builder]bool) (string, error) {
	switch t.kind {
	case kindGraphVariable, kindAttribute:
		return t.name, nil
	case kindFunction, kindFunctionRaw, kindUnboundFunction, kindUnboundFunctionRaw:
		var p printer
		p.write(t.name)
		p.write("(")
		err := p.formatList(len(t.args), func(i int) (string, error) {
			return t.args[i].render(visiting)
		}, ", ")
		if err != nil {
			return "", err
		}
		p.write(")")
		return p.String(), nil
	case kindIndex:
		if t.index.stop != nil {
			return "[" + formatLiteral(t.index.start) + ".." + formatLiteral(t.index.stop) + "]", nil
		}
		return "[" + formatLiteral(t.index.start) + "]", nil
	case kindClosure, kindClosureArguments:
		body, err := t.value.render(visiting)
		if err != nil {
			return "", err
		}
		if t.kind == kindClosure {
			return "{" + body + "}", nil
		}
		var p printer
		p.write("{")
		_ = p.formatList(len(t.params), func(i int) (string, error) {
			return t.params[i], nil
		}, ",")
		p.write(" -> ")
		p.write(body)
		p.write("}")
		return p.String(), nil
	case kindRaw:
		return t.value.render(visiting)
	default:
		return "", NewStructureErrorf("render", "unknown token kind %d in builder %s", t.kind, b.seed)
	}
}
