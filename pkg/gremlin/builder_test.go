package gremlin

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/leapstack-labs/gremlinql/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// render renders b and fails the test on error.
func render(t *testing.T, b *Builder) *Query {
	t.Helper()
	q, err := b.Render()
	require.NoError(t, err)
	return q
}

// onlyParam returns the single bound parameter name.
func onlyParam(t *testing.T, q *Query) string {
	t.Helper()
	require.Equal(t, 1, q.Params.Len(), "expected exactly one parameter")
	return q.Params.Names()[0]
}

func TestBuilder_GraphVariable(t *testing.T) {
	tests := []struct {
		name     string
		builder  *Builder
		expected string
	}{
		{name: "default", builder: New(), expected: "g"},
		{name: "dropped", builder: New().SetGraphVariable(""), expected: ""},
		{name: "changed", builder: New().SetGraphVariable("x"), expected: "x"},
		{name: "option", builder: New(WithGraphVariable("graph")), expected: "graph"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := render(t, tt.builder)
			assert.Equal(t, tt.expected, q.Text)
			assert.Equal(t, 0, q.Params.Len())
		})
	}
}

func TestBuilder_Attributes(t *testing.T) {
	tests := []struct {
		name     string
		builder  *Builder
		expected string
	}{
		{name: "one attribute", builder: New().Attr("a"), expected: "g.a"},
		{name: "two attributes", builder: New().Attr("a").Attr("b"), expected: "g.a.b"},
		{name: "drop graph variable after", builder: New().Attr("a").SetGraphVariable(""), expected: "a"},
		{name: "drop graph variable before", builder: New(WithGraphVariable("")).Attr("a").Attr("b"), expected: "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, render(t, tt.builder).Text)
		})
	}
}

func TestBuilder_ManyAttributes(t *testing.T) {
	for _, gv := range []string{"g", ""} {
		b := New(WithGraphVariable(gv))
		var parts []string
		if gv != "" {
			parts = append(parts, gv)
		}
		for i := 1; i < 15; i++ {
			b.Attr(strconv.Itoa(i))
			parts = append(parts, strconv.Itoa(i))
		}
		assert.Equal(t, strings.Join(parts, "."), render(t, b).Text, "graph variable %q", gv)
	}
}

func TestBuilder_Functions(t *testing.T) {
	t.Run("no arguments", func(t *testing.T) {
		q := render(t, New().Attr("function").Call())
		assert.Equal(t, "g.function()", q.Text)
		assert.Equal(t, 0, q.Params.Len())
	})

	t.Run("one argument is bound", func(t *testing.T) {
		q := render(t, New().Attr("function").Call("arg"))
		name := onlyParam(t, q)
		assert.Equal(t, "g.function("+name+")", q.Text)
		v, ok := q.Params.Get(name)
		require.True(t, ok)
		assert.Equal(t, "arg", v)
	})

	t.Run("only last of two arguments is bound", func(t *testing.T) {
		q := render(t, New().Attr("function").Call("one", "two"))
		name := onlyParam(t, q)
		assert.Equal(t, "g.function(one, "+name+")", q.Text)
	})

	t.Run("only last of three arguments is bound", func(t *testing.T) {
		q := render(t, New().Func("function", "one", "two", "three"))
		name := onlyParam(t, q)
		assert.Equal(t, "g.function(one, two, "+name+")", q.Text)
	})

	t.Run("numbers and booleans are bound", func(t *testing.T) {
		q := render(t, New().Func("limit", 10).Func("has", "active", true))
		require.Equal(t, 2, q.Params.Len())
		names := q.Params.Names()
		assert.Equal(t, "g.limit("+names[0]+").has(active, "+names[1]+")", q.Text)
		assert.Equal(t, map[string]any{names[0]: 10, names[1]: true}, q.Params.Map())
	})

	t.Run("argument before attribute", func(t *testing.T) {
		q := render(t, New().Attr("function").Call("val").Attr("a"))
		assert.Equal(t, "g.function("+onlyParam(t, q)+").a", q.Text)
	})

	t.Run("argument after attribute", func(t *testing.T) {
		q := render(t, New().Attr("a").Attr("function").Call("val"))
		assert.Equal(t, "g.a.function("+onlyParam(t, q)+")", q.Text)
	})

	t.Run("argument after attribute without graph variable", func(t *testing.T) {
		q := render(t, New(WithGraphVariable("")).Attr("a").Attr("function").Call("val"))
		assert.Equal(t, "a.function("+onlyParam(t, q)+")", q.Text)
	})
}

func TestBuilder_ManualBinding(t *testing.T) {
	t.Run("one argument", func(t *testing.T) {
		g := New()
		name, value := g.BindParam("arg")
		g.Attr("function").Call(name)

		q := render(t, g)
		assert.Equal(t, name, onlyParam(t, q))
		assert.Equal(t, "g.function("+name+")", q.Text)
		v, _ := q.Params.Get(name)
		assert.Equal(t, value, v)
	})

	t.Run("two arguments", func(t *testing.T) {
		g := New()
		first, _ := g.BindParam("arg")
		second, _ := g.BindParam("arg2")
		g.Attr("function").Call(first, second)

		q := render(t, g)
		assert.Equal(t, "g.function("+first+", "+second+")", q.Text)
		assert.Equal(t, 2, q.Params.Len())
	})

	t.Run("placeholder reused in two positions", func(t *testing.T) {
		g := New()
		name, _ := g.BindParam("shared")
		g.Func("a", name).Func("b", name)

		q := render(t, g)
		assert.Equal(t, "g.a("+name+").b("+name+")", q.Text)
		assert.Equal(t, 1, q.Params.Len())
	})
}

func TestBuilder_UnboundFunctions(t *testing.T) {
	t.Run("no parameters are bound", func(t *testing.T) {
		q := render(t, New().Unbound("func", "val1", "val2"))
		assert.Equal(t, "g.func(val1, val2)", q.Text)
		assert.Equal(t, 0, q.Params.Len())
	})

	t.Run("followed by bound function", func(t *testing.T) {
		q := render(t, New().Unbound("func", "val1", "val2").Attr("isbound").Call("hello"))
		hello, ok := q.Params.NameOf("hello")
		require.True(t, ok)
		assert.Equal(t, "g.func(val1, val2).isbound("+hello+")", q.Text)
		assert.Equal(t, 1, q.Params.Len())
	})

	t.Run("raw variants have no separator", func(t *testing.T) {
		g := New(WithGraphVariable(""))
		g.FuncRawUnbound("inject", 1, 2).Func("count")
		assert.Equal(t, "inject(1, 2).count()", render(t, g).Text)
	})

	t.Run("bound raw function", func(t *testing.T) {
		q := render(t, New(WithGraphVariable("")).FuncRaw("inject", "x"))
		assert.Equal(t, "inject("+onlyParam(t, q)+")", q.Text)
	})

	t.Run("range", func(t *testing.T) {
		g := New(WithGraphVariable(""))
		g.Range(0, 10).Attr("each").Close("println it")
		assert.Equal(t, "range(0, 10).each{println it}", render(t, g).Text)
	})
}

func TestBuilder_Closures(t *testing.T) {
	t.Run("closure after bound function", func(t *testing.T) {
		q := render(t, New().Attr("condition").Call("x").Close("body"))
		x, ok := q.Params.NameOf("x")
		require.True(t, ok)
		assert.Equal(t, "g.condition("+x+"){body}", q.Text)
		assert.Equal(t, 1, q.Params.Len())
	})

	t.Run("closure with arguments", func(t *testing.T) {
		q := render(t, New().Func("each").Close("println a + b", "a", "b"))
		assert.Equal(t, "g.each(){a,b -> println a + b}", q.Text)
	})

	t.Run("nested builder body", func(t *testing.T) {
		body := New(WithGraphVariable("it"))
		body.Func("value", "name")

		g := New()
		g.Attr("map").Close(body)

		q := render(t, g)
		assert.Equal(t, "g.map{it.value("+onlyParam(t, q)+")}", q.Text)
	})

	t.Run("statement body", func(t *testing.T) {
		out := stmt(func(b *Builder) *Builder { return b.Attr("out").Call() })
		q := render(t, New().Attr("map").Close(out))
		assert.Equal(t, "g.map{g.out()}", q.Text)
	})
}

func TestBuilder_Index(t *testing.T) {
	tests := []struct {
		name     string
		builder  *Builder
		expected string
	}{
		{name: "single value", builder: New().Attr("func").Call().Index(1), expected: "g.func()[1]"},
		{name: "range", builder: New().Attr("func").Call().Slice(1, 2, nil), expected: "g.func()[1..2]"},
		{name: "step is ignored", builder: New().Func("func").Slice(0, 10, 2), expected: "g.func()[0..10]"},
		{name: "nil stop", builder: New().Func("func").Slice(3, nil, nil), expected: "g.func()[3]"},
		{name: "string key", builder: New().Attr("map").Index("name"), expected: "g.map[name]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, render(t, tt.builder).Text)
		})
	}
}

func TestBuilder_SliceNegativeStep(t *testing.T) {
	g := New().Func("func").Slice(5, 0, -1)

	_, err := g.Render()
	require.Error(t, err)
	var structErr *StructureError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, "slice", structErr.Op)
	assert.Contains(t, structErr.Msg, "negative step -1")
}

func TestBuilder_IndexAfterClosure(t *testing.T) {
	q := render(t, New().Attr("condition").Call("x").Close("body").Slice(12, 44, nil))
	x, _ := q.Params.NameOf("x")
	assert.Equal(t, "g.condition("+x+"){body}[12..44]", q.Text)
	assert.Equal(t, 1, q.Params.Len())
}

func TestBuilder_Raw(t *testing.T) {
	t.Run("suppresses following separator", func(t *testing.T) {
		g := New(WithGraphVariable(""))
		g.Raw("g.V(1).").Attr("out").Call()
		assert.Equal(t, "g.V(1).out()", render(t, g).Text)
	})

	t.Run("nested builder", func(t *testing.T) {
		inner := New()
		inner.Func("V", 1)

		g := New(WithGraphVariable(""))
		g.Raw(inner)

		q := render(t, g)
		assert.Equal(t, "g.V("+onlyParam(t, q)+")", q.Text)
	})
}

func TestBuilder_ReturnVariable(t *testing.T) {
	g := New(WithReturnVariable("x"))
	g.Func("V")
	assert.Equal(t, "x = g.V()", render(t, g).Text)

	g.SetReturnVariable("")
	assert.Equal(t, "g.V()", render(t, g).Text)
}

func TestBuilder_Reset(t *testing.T) {
	g := New().SetGraphVariable("x").SetReturnVariable("r")
	g.Func("V", 1)

	g.Reset()

	q := render(t, g)
	assert.Equal(t, "x", q.Text)
	assert.Equal(t, 0, q.Params.Len())
	assert.Empty(t, g.ReturnVariable())
	assert.Len(t, g.Seed(), seedLength)
}

func TestBuilder_RenderIsRepeatable(t *testing.T) {
	inner := New(WithGraphVariable(""))
	inner.Func("out", "knows")

	g := New()
	g.Func("V").Func("has", "name", Eq("marko")).Func("repeat", inner).Close("it").Index(0)

	first := render(t, g)
	second := render(t, g)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Params.Names(), second.Params.Names())
	assert.Equal(t, first.Text, g.String())
}

func TestBuilder_CallWithoutAttribute(t *testing.T) {
	g := New().Func("V").Call("x")

	_, err := g.Render()
	require.Error(t, err)

	var structErr *StructureError
	require.True(t, errors.As(err, &structErr))
	assert.Equal(t, "call", structErr.Op)
	assert.Empty(t, g.String())
}

func TestBuilder_SpliceOutMissingTarget(t *testing.T) {
	var logs strings.Builder
	g := New(WithLogger(testutil.NewBufferLogger(&logs)))
	g.Attr("a").Attr("b")

	g.spliceOut(42)
	g.spliceOut(noToken)
	g.spliceOut(head)

	assert.Equal(t, "g.a.b", render(t, g).Text)
	assert.Contains(t, logs.String(), "splice target out of range")
}

func TestBuilder_SpliceOutUnlinkedTarget(t *testing.T) {
	g := New(WithLogger(testutil.NewTestLogger(t)))
	g.Attr("a").Attr("b")

	// index 1 is already unreachable after the first splice
	g.spliceOut(1)
	g.spliceOut(1)

	assert.Equal(t, "g.b", render(t, g).Text)
}

func TestBuilder_SpliceOutLastMovesTail(t *testing.T) {
	g := New()
	g.Attr("a").Attr("b")

	g.spliceOut(g.last)
	g.Attr("c")

	assert.Equal(t, "g.a.c", render(t, g).Text)
}

// stmt adapts a function to Statement for tests.
type stmt func(b *Builder) *Builder

func (s stmt) Apply(b *Builder) *Builder { return s(b) }

func TestBuilder_ApplyStatement(t *testing.T) {
	byName := stmt(func(b *Builder) *Builder {
		return b.Func("V").Func("has", "name", "marko")
	})

	g := New().ApplyStatement(byName)

	q := render(t, g)
	assert.Equal(t, "g.V().has(name, "+onlyParam(t, q)+")", q.Text)

	t.Run("nil result is a structure error", func(t *testing.T) {
		g := New().ApplyStatement(stmt(func(*Builder) *Builder { return nil }))
		var structErr *StructureError
		_, err := g.Render()
		assert.True(t, errors.As(err, &structErr))
	})
}
