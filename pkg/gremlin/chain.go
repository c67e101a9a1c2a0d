package gremlin

// head is the arena index of the graph variable token.
const head = 0

// add links t after the last token and makes it the new last token.
func (b *Builder) add(t *token) *Builder {
	b.tokens = append(b.tokens, t)
	idx := len(b.tokens) - 1
	b.tokens[b.last].next = idx
	b.last = idx
	return b
}

// spliceOut unlinks the token at target from the chain. The token stays in
// the arena but is no longer reachable.
func (b *Builder) spliceOut(target int) {
	if target <= head || target >= len(b.tokens) {
		b.logger.Debug("splice target out of range", "index", target, "seed", b.seed)
		return
	}
	for i := head; i != noToken; i = b.tokens[i].next {
		if b.tokens[i].next != target {
			continue
		}
		b.tokens[i].next = b.tokens[target].next
		if b.last == target {
			b.last = i
		}
		return
	}
	b.logger.Debug("splice target not in chain", "index", target, "seed", b.seed)
}

// render walks the chain and joins every token with its separator.
// visiting holds the builders currently being rendered, to detect cycles.
func (b *Builder) render(visiting map[*Builder]bool) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if visiting[b] {
		b.logger.Debug("cycle detected while rendering", "seed", b.seed)
		return "", &CycleError{Seed: b.seed}
	}
	visiting[b] = true
	defer delete(visiting, b)

	var p printer
	if b.returnVariable != "" {
		p.write(b.returnVariable)
		p.write(" = ")
	}

	var prev *token
	var prevText string
	for i := head; i != noToken; i = b.tokens[i].next {
		t := b.tokens[i]
		text, err := t.render(b, visiting)
		if err != nil {
			return "", err
		}

		// Raw tokens control their own surrounding text, and an empty graph
		// variable must not leave a leading separator.
		if prev != nil && t.concat != "" && prev.kind != kindRaw {
			if prev.kind != kindGraphVariable || prevText != "" {
				p.write(t.concat)
			}
		}
		p.write(text)

		prev, prevText = t, text
	}

	return p.String(), nil
}
