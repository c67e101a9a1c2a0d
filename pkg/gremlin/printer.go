package gremlin

import "strings"

// printer accumulates rendered query text.
type printer struct {
	output strings.Builder
}

func (p *printer) String() string {
	return p.output.String()
}

func (p *printer) write(s string) {
	p.output.WriteString(s)
}

// formatList prints count items with sep between them.
// It stops at the first error returned by format.
func (p *printer) formatList(count int, format func(i int) (string, error), sep string) error {
	for i := 0; i < count; i++ {
		s, err := format(i)
		if err != nil {
			return err
		}
		p.write(s)
		if i < count-1 {
			p.write(sep)
		}
	}
	return nil
}
