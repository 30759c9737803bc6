package mutators

import (
	m "solmut.dev/pkg/solmut/internal/model"
)

var logicalSwaps = map[string]string{
	"&&": "||",
	"||": "&&",
}

// GenerateLogicalMutations swaps the connector of a logical expression
// (`a && b` -> `a || b`).
func GenerateLogicalMutations(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	if n.NodeType != "BinaryOperation" {
		return nil
	}

	return binarySwap(n, source, path, m.MutationLogical, logicalSwaps)
}
