package mutators

import (
	"strings"

	m "solmut.dev/pkg/solmut/internal/model"
)

// GenerateUnaryMutations mutates unary expressions. Prefix `!`, `~` and `-`
// are dropped (the whole expression is replaced by its operand); `++` and
// `--` are swapped in place, prefix or postfix.
func GenerateUnaryMutations(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	if n.NodeType != "UnaryOperation" || n.Sub == nil {
		return nil
	}

	switch n.Operator {
	case "++", "--":
		return swapIncDec(n, source, path)
	case "!", "~", "-":
		if !n.Prefix {
			return nil
		}

		operand := ""
		if int(n.Sub.Src.Hi) <= len(source) {
			operand = string(source[n.Sub.Src.Lo:n.Sub.Src.Hi])
		}

		return []m.Mutant{newMutant(source, n.Src, operand, m.MutationUnary, path)}
	}

	return nil
}

func swapIncDec(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	replacement := "--"
	if n.Operator == "--" {
		replacement = "++"
	}

	// The token sits before the operand for prefix form, after it otherwise.
	from, to := n.Src.Lo, n.Sub.Src.Lo
	if !n.Prefix {
		from, to = n.Sub.Src.Hi, n.Src.Hi
	}

	if int(to) > len(source) || from > to {
		return nil
	}

	idx := strings.Index(string(source[from:to]), n.Operator)
	if idx < 0 {
		return nil
	}

	lo := from + uint32(idx)
	span := m.Span{Lo: lo, Hi: lo + uint32(len(n.Operator))}

	return []m.Mutant{newMutant(source, span, replacement, m.MutationUnary, path)}
}
