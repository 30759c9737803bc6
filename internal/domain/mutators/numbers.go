package mutators

import (
	"regexp"

	m "solmut.dev/pkg/solmut/internal/model"
)

var decimalLiteral = regexp.MustCompile(`^[0-9_]+$`)

// GenerateNumberMutations replaces decimal number literals with 0 and 1.
// Hex literals and literals carrying sub-denomination suffixes (wei, ether,
// days, ...) are skipped: their span does not cover a bare number.
func GenerateNumberMutations(n *m.ASTNode, source []byte, path m.Path) []m.Mutant {
	if n.NodeType != "Literal" || n.Kind != "number" {
		return nil
	}

	if int(n.Src.Hi) > len(source) {
		return nil
	}

	original := string(source[n.Src.Lo:n.Src.Hi])
	if !decimalLiteral.MatchString(original) {
		return nil
	}

	var mutants []m.Mutant

	for _, replacement := range []string{"0", "1"} {
		if n.Value == replacement {
			continue
		}

		mutants = append(mutants, newMutant(source, n.Src, replacement, m.MutationNumberLit, path))
	}

	return mutants
}
