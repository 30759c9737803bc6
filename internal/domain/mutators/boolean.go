package mutators

import (
	m "solmut.dev/pkg/solmut/internal/model"
)

// GenerateBooleanMutations flips boolean literals (`true` <-> `false`).
func GenerateBooleanMutations(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	if n.NodeType != "Literal" || n.Kind != "bool" {
		return nil
	}

	replacement := "false"
	if n.Value == "false" {
		replacement = "true"
	}

	return []m.Mutant{newMutant(source, n.Src, replacement, m.MutationBooleanLit, path)}
}
