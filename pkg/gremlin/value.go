package gremlin

import (
	"fmt"
	"reflect"
	"strconv"
)

// valueKind tags a normalized operand.
type valueKind int

// valueKind constants.
const (
	valueLiteral   valueKind = iota // rendered as text, never bound
	valueBound                      // replaced by a placeholder
	valueSequence                   // element-wise normalized list
	valuePredicate                  // predicate with a private sub-builder
	valueStatement                  // statement applied to a sub-builder
	valueBuilder                    // nested builder
)

// value is an operand after normalization. Exactly the fields for its kind are set.
type value struct {
	kind        valueKind
	literal     any
	placeholder string
	items       []value
	pred        *Predicate
	builder     *Builder
}

// normalize resolves v into its chain-safe form. Scalars are bound only when
// canBind is set.
func (b *Builder) normalize(v any, canBind bool) value {
	switch x := v.(type) {
	case *Predicate:
		if x == nil {
			return value{kind: valueLiteral}
		}
		return b.normalizePredicate(x, canBind)
	case *Builder:
		if x == nil {
			return value{kind: valueLiteral}
		}
		x.SetParent(b)
		return value{kind: valueBuilder, builder: x}
	case Statement:
		return b.normalizeStatement(x)
	}

	if items, ok := sequence(v); ok {
		out := value{kind: valueSequence, items: make([]value, len(items))}
		for i, item := range items {
			out.items[i] = b.normalize(item, canBind)
		}
		return out
	}

	if canBind && isScalar(v) {
		name, _ := b.BindParam(v)
		return value{kind: valueBound, literal: v, placeholder: name}
	}

	return value{kind: valueLiteral, literal: v}
}

// normalizePredicate attaches a fresh sub-builder to p so its arguments bind
// into this builder's namespace. Arguments follow the binding policy of the
// position the predicate sits in.
func (b *Builder) normalizePredicate(p *Predicate, canBind bool) value {
	sub := b.sub()
	sub.SetParent(b)
	out := value{kind: valuePredicate, pred: p, builder: sub, items: make([]value, len(p.args))}
	for i, arg := range p.args {
		out.items[i] = sub.normalize(arg, canBind)
	}
	return out
}

// normalizeStatement applies s to a private sub-builder parented to b.
func (b *Builder) normalizeStatement(s Statement) value {
	sub := b.sub()
	applied := s.Apply(sub)
	if applied == nil {
		b.fail(NewStructureErrorf("statement", "%T returned no builder", s))
		applied = sub
	}
	applied.SetParent(b)
	return value{kind: valueStatement, builder: applied}
}

func (v value) render(visiting map[*Builder]bool) (string, error) {
	switch v.kind {
	case valueLiteral:
		return formatLiteral(v.literal), nil
	case valueBound:
		return v.placeholder, nil
	case valueSequence:
		var p printer
		p.write("[")
		if err := p.formatList(len(v.items), func(i int) (string, error) {
			return v.items[i].render(visiting)
		}, ", "); err != nil {
			return "", err
		}
		p.write("]")
		return p.String(), nil
	case valuePredicate:
		if v.pred.name == "" {
			return "", v.pred.missingName()
		}
		var p printer
		p.write(v.pred.name)
		p.write("(")
		if err := p.formatList(len(v.items), func(i int) (string, error) {
			return v.items[i].render(visiting)
		}, ", "); err != nil {
			return "", err
		}
		p.write(")")
		return p.String(), nil
	case valueStatement, valueBuilder:
		return v.builder.render(visiting)
	default:
		return "", NewStructureErrorf("render", "unknown value kind %d", v.kind)
	}
}

// isScalar reports whether v is a string, boolean or number.
func isScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// sequence unpacks slices and arrays of any element type.
func sequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// formatLiteral renders a value as literal query text.
func formatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
