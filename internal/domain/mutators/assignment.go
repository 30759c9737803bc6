package mutators

import (
	m "solmut.dev/pkg/solmut/internal/model"
)

var assignmentSwaps = map[string]string{
	"+=": "-=",
	"-=": "+=",
	"*=": "/=",
	"/=": "*=",
	"%=": "*=",
}

// GenerateAssignmentMutations swaps compound assignment operators
// (`a += b` -> `a -= b`). Plain `=` is left alone.
func GenerateAssignmentMutations(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	if n.NodeType != "Assignment" {
		return nil
	}

	return binarySwap(n, source, path, m.MutationAssignment, assignmentSwaps)
}
