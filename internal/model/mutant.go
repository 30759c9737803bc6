package model

import "fmt"

// MutationKind identifies the operator family that produced a mutant.
type MutationKind string

// Supported mutation operator kinds. The string values double as the operator
// identifiers accepted in configuration.
const (
	MutationArithmetic  MutationKind = "arithmetic"
	MutationBitwise     MutationKind = "bitwise"
	MutationComparison  MutationKind = "comparison"
	MutationLogical     MutationKind = "logical"
	MutationUnary       MutationKind = "unary"
	MutationAssignment  MutationKind = "assignment"
	MutationBooleanLit  MutationKind = "boolean-literal"
	MutationNumberLit   MutationKind = "number-literal"
	MutationIfCondition MutationKind = "if-condition"
)

// AllMutationKinds returns every operator kind in catalog order.
func AllMutationKinds() []MutationKind {
	return []MutationKind{
		MutationArithmetic,
		MutationBitwise,
		MutationComparison,
		MutationLogical,
		MutationUnary,
		MutationAssignment,
		MutationBooleanLit,
		MutationNumberLit,
		MutationIfCondition,
	}
}

// Mutant is an immutable candidate mutation: a source span, the verbatim
// original text inside it, and the replacement text the operator rendered.
type Mutant struct {
	Span         Span         `json:"span"`
	Original     string       `json:"original"`
	Mutation     string       `json:"mutation"`
	Kind         MutationKind `json:"kind"`
	Line         int          `json:"line"`
	Column       int          `json:"column"`
	ContractPath Path         `json:"contract_path"`
}

// String renders the mutant in the one-per-line console format.
func (m Mutant) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: `%s` -> `%s`", m.ContractPath, m.Line, m.Column, m.Kind, m.Original, m.Mutation)
}
