package domain

import (
	"fmt"

	"solmut.dev/pkg/solmut/internal/domain/mutators"
	m "solmut.dev/pkg/solmut/internal/model"
)

// SkipFunc decides whether a subtree span should be skipped entirely,
// typically SurvivedSpans.ShouldSkip.
type SkipFunc func(m.Span) bool

var mutationGenerators = map[m.MutationKind]mutators.Generator{
	m.MutationArithmetic:  mutators.GenerateArithmeticMutations,
	m.MutationBitwise:     mutators.GenerateBitwiseMutations,
	m.MutationComparison:  mutators.GenerateComparisonMutations,
	m.MutationLogical:     mutators.GenerateLogicalMutations,
	m.MutationUnary:       mutators.GenerateUnaryMutations,
	m.MutationAssignment:  mutators.GenerateAssignmentMutations,
	m.MutationBooleanLit:  mutators.GenerateBooleanMutations,
	m.MutationNumberLit:   mutators.GenerateNumberMutations,
	m.MutationIfCondition: mutators.GenerateBranchMutations,
}

// ResolveMutationKinds validates the configured operator identifiers,
// defaulting to the full catalog when none are given.
func ResolveMutationKinds(kinds []m.MutationKind) ([]m.MutationKind, error) {
	if len(kinds) == 0 {
		return m.AllMutationKinds(), nil
	}

	for _, kind := range kinds {
		if _, ok := mutationGenerators[kind]; !ok {
			return nil, fmt.Errorf("unsupported mutation operator: %s", kind)
		}
	}

	return kinds, nil
}

// MutantVisitor walks a parsed AST and collects candidate mutants from every
// eligible node, consulting the skip predicate before descending into any
// subtree.
type MutantVisitor struct {
	contractPath m.Path
	source       []byte
	kinds        []m.MutationKind
	skip         SkipFunc

	// Mutants holds the collected candidates in traversal order.
	Mutants []m.Mutant
	// SkippedSubtrees counts subtrees pruned by the skip predicate.
	SkippedSubtrees int
}

// NewMutantVisitor creates a visitor for one source file. kinds must already
// be resolved; skip may be nil to disable adaptive pruning.
func NewMutantVisitor(contractPath m.Path, source []byte, kinds []m.MutationKind, skip SkipFunc) *MutantVisitor {
	return &MutantVisitor{
		contractPath: contractPath,
		source:       source,
		kinds:        kinds,
		skip:         skip,
	}
}

// Visit traverses the AST rooted at node, depth first, in source order.
func (v *MutantVisitor) Visit(node *m.ASTNode) {
	if node == nil {
		return
	}

	if v.skip != nil && node.Src.Len() > 0 && v.skip(node.Src) {
		v.SkippedSubtrees++
		return
	}

	for _, kind := range v.kinds {
		gen, ok := mutationGenerators[kind]
		if !ok {
			continue
		}

		v.Mutants = append(v.Mutants, gen(node, v.source, v.contractPath)...)
	}

	for _, child := range node.Children {
		v.Visit(child)
	}
}
