package mutators

import (
	m "solmut.dev/pkg/solmut/internal/model"
)

var bitwiseSwaps = map[string]string{
	"&":  "|",
	"|":  "&",
	"^":  "&",
	"<<": ">>",
	">>": "<<",
}

// GenerateBitwiseMutations swaps the operator of a bitwise binary expression
// (`a & b` -> `a | b`, `a << b` -> `a >> b`).
func GenerateBitwiseMutations(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	if n.NodeType != "BinaryOperation" {
		return nil
	}

	return binarySwap(n, source, path, m.MutationBitwise, bitwiseSwaps)
}
