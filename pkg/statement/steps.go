package statement

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/gremlinql/pkg/gremlin"
	"gopkg.in/yaml.v3"
)

// StepKind identifies the builder operation a step performs.
type StepKind string

// StepKind constants, one per builder operation.
const (
	StepAttr           StepKind = "attr"             // attr: name
	StepCall           StepKind = "call"             // call: [args...]
	StepFunc           StepKind = "func"             // func: name, args: [...]
	StepFuncRaw        StepKind = "func_raw"         // func_raw: name, args: [...]
	StepUnbound        StepKind = "unbound"          // unbound: name, args: [...]
	StepFuncRawUnbound StepKind = "func_raw_unbound" // func_raw_unbound: name, args: [...]
	StepRange          StepKind = "range"            // range: [start, end]
	StepIndex          StepKind = "index"            // index: key
	StepSlice          StepKind = "slice"            // slice: [start, stop(, step)]
	StepClose          StepKind = "close"            // close: body, params: [...]
	StepRaw            StepKind = "raw"              // raw: value
	StepReturn         StepKind = "return"           // return: variable
	StepGraphVariable  StepKind = "graph_variable"   // graph_variable: name
)

var stepKinds = map[StepKind]struct{}{
	StepAttr: {}, StepCall: {}, StepFunc: {}, StepFuncRaw: {}, StepUnbound: {},
	StepFuncRawUnbound: {}, StepRange: {}, StepIndex: {}, StepSlice: {},
	StepClose: {}, StepRaw: {}, StepReturn: {}, StepGraphVariable: {},
}

// Steps is a declarative statement: an ordered list of builder operations.
type Steps struct {
	Name           string  `yaml:"name"`
	Description    string  `yaml:"description"`
	GraphVariable  *string `yaml:"graph_variable"`
	ReturnVariable string  `yaml:"return_variable"`
	Steps          []Step  `yaml:"steps"`
}

// Step is one builder operation.
type Step struct {
	Kind   StepKind
	Name   string   // attribute, function or variable name
	Args   []any    // function, call, range and slice arguments
	Value  any      // index key, closure body or raw value
	Params []string // closure parameters
	Line   int
}

// Apply replays the steps on b. A nil *Steps leaves b unchanged.
func (s *Steps) Apply(b *gremlin.Builder) *gremlin.Builder {
	if s == nil {
		return b
	}
	if s.GraphVariable != nil {
		b.SetGraphVariable(*s.GraphVariable)
	}
	if s.ReturnVariable != "" {
		b.SetReturnVariable(s.ReturnVariable)
	}
	for _, step := range s.Steps {
		step.apply(b)
	}
	return b
}

func (s Step) apply(b *gremlin.Builder) *gremlin.Builder {
	switch s.Kind {
	case StepAttr:
		return b.Attr(s.Name)
	case StepCall:
		return b.Call(s.Args...)
	case StepFunc:
		return b.Func(s.Name, s.Args...)
	case StepFuncRaw:
		return b.FuncRaw(s.Name, s.Args...)
	case StepUnbound:
		return b.Unbound(s.Name, s.Args...)
	case StepFuncRawUnbound:
		return b.FuncRawUnbound(s.Name, s.Args...)
	case StepRange:
		return b.Range(s.Args[0], s.Args[1])
	case StepIndex:
		return b.Index(s.Value)
	case StepSlice:
		var step any
		if len(s.Args) == 3 {
			step = s.Args[2]
		}
		return b.Slice(s.Args[0], s.Args[1], step)
	case StepClose:
		return b.Close(s.Value, s.Params...)
	case StepRaw:
		return b.Raw(s.Value)
	case StepReturn:
		return b.SetReturnVariable(s.Name)
	case StepGraphVariable:
		return b.SetGraphVariable(s.Name)
	default:
		return b
	}
}

// UnmarshalYAML decodes a step mapping such as {func: has, args: [a, b]}.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return stepErrorf(node.Line, "", "step must be a mapping")
	}
	s.Line = node.Line

	var body *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "args":
			args, err := decodeList(val)
			if err != nil {
				return err
			}
			s.Args = args
		case "params":
			if err := val.Decode(&s.Params); err != nil {
				return stepErrorf(val.Line, s.Kind, "params must be a list of names")
			}
		default:
			kind := StepKind(key.Value)
			if _, ok := stepKinds[kind]; !ok {
				return stepErrorf(key.Line, "", "unknown step %q", key.Value)
			}
			if s.Kind != "" {
				return stepErrorf(key.Line, s.Kind, "step already has kind %s, found %s", s.Kind, kind)
			}
			s.Kind, body = kind, val
		}
	}

	if s.Kind == "" {
		return stepErrorf(node.Line, "", "step has no operation")
	}
	return s.decodeBody(body)
}

func (s *Step) decodeBody(body *yaml.Node) error {
	switch s.Kind {
	case StepAttr, StepFunc, StepFuncRaw, StepUnbound, StepFuncRawUnbound, StepReturn, StepGraphVariable:
		if body.Kind != yaml.ScalarNode {
			return stepErrorf(body.Line, s.Kind, "name must be a string")
		}
		s.Name = body.Value
		if s.Name == "" && s.Kind != StepGraphVariable && s.Kind != StepReturn {
			return stepErrorf(body.Line, s.Kind, "name must not be empty")
		}
	case StepCall:
		if isNull(body) {
			return nil
		}
		args, err := decodeList(body)
		if err != nil {
			return err
		}
		s.Args = append(args, s.Args...)
	case StepRange, StepSlice:
		args, err := decodeList(body)
		if err != nil {
			return err
		}
		if s.Kind == StepRange && len(args) != 2 {
			return stepErrorf(body.Line, s.Kind, "expected [start, end], got %d values", len(args))
		}
		if s.Kind == StepSlice && (len(args) < 2 || len(args) > 3) {
			return stepErrorf(body.Line, s.Kind, "expected [start, stop] or [start, stop, step], got %d values", len(args))
		}
		s.Args = args
	case StepIndex, StepClose, StepRaw:
		v, err := decodeValue(body)
		if err != nil {
			return err
		}
		s.Value = v
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func decodeList(node *yaml.Node) ([]any, error) {
	if node.Kind == yaml.AliasNode {
		return decodeList(node.Alias)
	}
	if node.Kind != yaml.SequenceNode {
		return nil, stepErrorf(node.Line, "", "expected a list")
	}
	out := make([]any, len(node.Content))
	for i, item := range node.Content {
		v, err := decodeValue(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// decodeValue converts an argument node. Mappings are either predicates
// {predicate: name, args: [...]} or nested statements {steps: [...]}.
func decodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeValue(node.Alias)
	case yaml.SequenceNode:
		return decodeList(node)
	case yaml.MappingNode:
		return decodeMapping(node)
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, stepErrorf(node.Line, "", "invalid value: %v", err)
		}
		return v, nil
	}
}

func decodeMapping(node *yaml.Node) (any, error) {
	keys := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = node.Content[i+1]
	}

	if nameNode, ok := keys["predicate"]; ok {
		var args []any
		if argsNode, ok := keys["args"]; ok {
			var err error
			if args, err = decodeList(argsNode); err != nil {
				return nil, err
			}
		}
		if p, ok := gremlin.LookupPredicate(nameNode.Value, args...); ok {
			return p, nil
		}
		return gremlin.NewPredicate(nameNode.Value, args...), nil
	}

	if _, ok := keys["steps"]; ok {
		var nested Steps
		if err := node.Decode(&nested); err != nil {
			return nil, err
		}
		return &nested, nil
	}

	return nil, stepErrorf(node.Line, "", "mapping value must be a predicate or steps")
}

// Parse decodes a statement from YAML. Unknown fields are rejected.
func Parse(data []byte) (*Steps, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Steps
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Message: "empty statement"}
		}
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			return nil, stepErr
		}
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if len(s.Steps) == 0 {
		return nil, &ParseError{Message: "statement has no steps"}
	}
	return &s, nil
}

// Load reads and decodes a statement from r.
func Load(r io.Reader) (*Steps, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and decodes a statement file.
func LoadFile(path string) (*Steps, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read statement %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
		}
		return nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
