// Package output renders queries and errors for the CLI in text, JSON or
// table form.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/gremlinql/pkg/gremlin"
)

// Mode is an output format.
type Mode string

// Output modes.
const (
	ModeText  Mode = "text"
	ModeJSON  Mode = "json"
	ModeTable Mode = "table"
)

// Renderer writes command output in one mode.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer writing results to w and errors to errW.
func NewRenderer(w, errW io.Writer, mode Mode) *Renderer {
	return &Renderer{
		w:      w,
		errW:   errW,
		mode:   mode,
		styles: newStyles(w),
	}
}

// Writer returns the result writer.
func (r *Renderer) Writer() io.Writer { return r.w }

// Mode returns the output mode.
func (r *Renderer) Mode() Mode { return r.mode }

// Println writes a line to the result writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// QueryOutput is the JSON shape of a rendered query.
type QueryOutput struct {
	File   string          `json:"file,omitempty"`
	Query  string          `json:"query"`
	Params *gremlin.Params `json:"params"`
}

// Query writes a rendered query and its parameters.
func (r *Renderer) Query(file string, q *gremlin.Query) error {
	switch r.mode {
	case ModeJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(QueryOutput{File: file, Query: q.Text, Params: q.Params})
	case ModeTable:
		return r.queryTable(file, q)
	default:
		return r.queryText(file, q)
	}
}

func (r *Renderer) queryText(file string, q *gremlin.Query) error {
	if file != "" {
		r.Println(r.styles.Title.Render("# " + file))
	}
	r.Println(r.styles.Query.Render(q.Text))
	for _, name := range q.Params.Names() {
		v, _ := q.Params.Get(name)
		r.Println("  " + r.styles.ParamName.Render(name) + r.styles.Muted.Render(" = ") + FormatValue(v))
	}
	return nil
}

func (r *Renderer) queryTable(file string, q *gremlin.Query) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	if file != "" {
		t.SetTitle("%s", file)
	}
	t.AppendHeader(table.Row{"Parameter", "Value", "Type"})
	for _, name := range q.Params.Names() {
		v, _ := q.Params.Get(name)
		t.AppendRow(table.Row{name, FormatValue(v), fmt.Sprintf("%T", v)})
	}
	t.SetCaption("%s", q.Text)
	t.Render()
	return nil
}

// Error reports a failed file on the error writer.
func (r *Renderer) Error(file string, err error) {
	msg := err.Error()
	if file != "" {
		msg = file + ": " + msg
	}
	_, _ = fmt.Fprintln(r.errW, r.styles.Error.Render("error: "+msg))
}

// Info reports a status line on the error writer.
func (r *Renderer) Info(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errW, r.styles.Muted.Render(fmt.Sprintf(format, args...)))
}

// FormatValue formats a parameter value: strings are quoted, nil is null.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
