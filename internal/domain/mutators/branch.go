package mutators

import (
	m "solmut.dev/pkg/solmut/internal/model"
)

// GenerateBranchMutations forces the condition of an if statement to `true`
// and to `false`, exercising both arms regardless of the guarded predicate.
func GenerateBranchMutations(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	if n.NodeType != "IfStatement" || n.Condition == nil {
		return nil
	}

	span := n.Condition.Src
	if int(span.Hi) > len(source) {
		return nil
	}

	original := string(source[span.Lo:span.Hi])

	var mutants []m.Mutant

	for _, replacement := range []string{"true", "false"} {
		if original == replacement {
			continue
		}

		mutants = append(mutants, newMutant(source, span, replacement, m.MutationIfCondition, path))
	}

	return mutants
}
