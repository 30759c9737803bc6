package mutators

import (
	m "solmut.dev/pkg/solmut/internal/model"
)

// comparisonSwaps pairs each comparison with its boundary (or negated)
// counterpart: off-by-one boundary bugs are the mutations test suites most
// often fail to catch.
var comparisonSwaps = map[string]string{
	"<":  "<=",
	"<=": "<",
	">":  ">=",
	">=": ">",
	"==": "!=",
	"!=": "==",
}

// GenerateComparisonMutations swaps the operator of a comparison expression
// (`a < b` -> `a <= b`, `a == b` -> `a != b`).
func GenerateComparisonMutations(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	if n.NodeType != "BinaryOperation" {
		return nil
	}

	return binarySwap(n, source, path, m.MutationComparison, comparisonSwaps)
}
