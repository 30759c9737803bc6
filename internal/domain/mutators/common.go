// Package mutators provides the catalog of mutation operators. Each operator
// is a generator func that inspects one AST node and proposes zero or more
// mutants for it.
package mutators

import (
	"strings"

	m "solmut.dev/pkg/solmut/internal/model"
)

// Generator proposes mutants for a single AST node. Implementations must be
// pure: same node, source and path always yield the same mutants.
type Generator func(n *m.ASTNode, source []byte, path m.Path) []m.Mutant

// operatorSpan locates the operator token of a binary-shaped node. The token
// lives between the end of the left operand and the start of the right one;
// only whitespace and comments share that gap, so a plain substring search is
// exact.
func operatorSpan(source []byte, from, to uint32, op string) (m.Span, bool) {
	if int(to) > len(source) || from > to {
		return m.Span{}, false
	}

	idx := strings.Index(string(source[from:to]), op)
	if idx < 0 {
		return m.Span{}, false
	}

	lo := from + uint32(idx)

	return m.Span{Lo: lo, Hi: lo + uint32(len(op))}, true
}

// newMutant assembles a mutant for a span replacement, deriving the original
// text and human-readable location from the span.
func newMutant(source []byte, span m.Span, replacement string, kind m.MutationKind, path m.Path) m.Mutant {
	original := ""
	if int(span.Hi) <= len(source) && span.Lo <= span.Hi {
		original = string(source[span.Lo:span.Hi])
	}

	line, column := m.LineColumn(source, span.Lo)

	return m.Mutant{
		Span:         span,
		Original:     original,
		Mutation:     replacement,
		Kind:         kind,
		Line:         line,
		Column:       column,
		ContractPath: path,
	}
}

// binarySwap emits one mutant replacing a binary operator with its configured
// counterpart.
func binarySwap(n *m.ASTNode, source []byte, path m.Path, kind m.MutationKind, swaps map[string]string) []m.Mutant {
	replacement, ok := swaps[n.Operator]
	if !ok || n.Left == nil || n.Right == nil {
		return nil
	}

	span, ok := operatorSpan(source, n.Left.Src.Hi, n.Right.Src.Lo, n.Operator)
	if !ok {
		return nil
	}

	return []m.Mutant{newMutant(source, span, replacement, kind, path)}
}
