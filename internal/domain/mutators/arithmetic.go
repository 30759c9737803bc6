package mutators

import (
	m "solmut.dev/pkg/solmut/internal/model"
)

// arithmeticSwaps maps each arithmetic operator to its single mutation
// counterpart. One mutant per site keeps campaigns proportional to the number
// of mutation points rather than the operator alphabet.
var arithmeticSwaps = map[string]string{
	"+":  "-",
	"-":  "+",
	"*":  "/",
	"/":  "*",
	"%":  "*",
	"**": "*",
}

// GenerateArithmeticMutations swaps the operator of an arithmetic binary
// expression (`a + b` -> `a - b`).
func GenerateArithmeticMutations(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	if n.NodeType != "BinaryOperation" {
		return nil
	}

	return binarySwap(n, source, path, m.MutationArithmetic, arithmeticSwaps)
}
