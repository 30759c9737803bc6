package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"solmut.dev/pkg/solmut/internal/adapter"
	m "solmut.dev/pkg/solmut/internal/model"
)

// fakeParser hands back a prebuilt AST, standing in for the external parser.
type fakeParser struct {
	root *m.ASTNode
	err  error
}

func (f *fakeParser) Parse(_ context.Context, _ m.Path, _ []byte) (*m.ASTNode, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.root, nil
}

// fakeCompiler scripts the compiler collaborator with a closure.
type fakeCompiler struct {
	build func(ctx context.Context) (adapter.BuildResult, error)
}

func (f *fakeCompiler) Build(ctx context.Context, _ m.Path) (adapter.BuildResult, error) {
	return f.build(ctx)
}

// fakeTests scripts the test-runner collaborator with a closure.
type fakeTests struct {
	run func(ctx context.Context) (int, error)
}

func (f *fakeTests) RunTests(ctx context.Context, _ m.Path) (int, error) {
	return f.run(ctx)
}

// spanOf locates needle inside source, failing the test when absent.
func spanOf(t *testing.T, source, needle string) m.Span {
	t.Helper()

	idx := strings.Index(source, needle)
	require.GreaterOrEqual(t, idx, 0, "needle %q not in source", needle)

	return m.Span{Lo: uint32(idx), Hi: uint32(idx + len(needle))}
}

// additionAST builds the minimal AST of a contract containing a single
// `a + b` expression, with spans derived from the actual source text.
func additionAST(t *testing.T, source string) *m.ASTNode {
	t.Helper()

	left := &m.ASTNode{NodeType: "Identifier", Src: spanOf(t, source, "a")}
	right := &m.ASTNode{NodeType: "Identifier", Src: spanOf(t, source, "b")}

	binary := &m.ASTNode{
		NodeType: "BinaryOperation",
		Src:      spanOf(t, source, "a + b"),
		Operator: "+",
		Left:     left,
		Right:    right,
		Children: []*m.ASTNode{left, right},
	}

	return &m.ASTNode{
		NodeType: "SourceUnit",
		Src:      m.Span{Lo: 0, Hi: uint32(len(source))},
		Children: []*m.ASTNode{binary},
	}
}
