package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "solmut.dev/pkg/solmut/internal/model"
)

// compactAdditionAST mirrors what solc emits for `a + b` inside a contract,
// trimmed to the fields the decoder reads.
const compactAdditionAST = `{
  "nodeType": "SourceUnit",
  "src": "0:64:0",
  "nodes": [
    {
      "nodeType": "BinaryOperation",
      "src": "40:5:0",
      "operator": "+",
      "leftExpression": {"nodeType": "Identifier", "src": "40:1:0", "name": "a"},
      "rightExpression": {"nodeType": "Identifier", "src": "44:1:0", "name": "b"}
    }
  ]
}`

func TestDecodeCompactAST(t *testing.T) {
	root, err := DecodeCompactAST([]byte(compactAdditionAST))
	require.NoError(t, err)

	assert.Equal(t, "SourceUnit", root.NodeType)
	assert.Equal(t, m.Span{Lo: 0, Hi: 64}, root.Src)
	require.Len(t, root.Children, 1)

	binary := root.Children[0]
	assert.Equal(t, "BinaryOperation", binary.NodeType)
	assert.Equal(t, "+", binary.Operator)
	assert.Equal(t, m.Span{Lo: 40, Hi: 45}, binary.Src)

	require.NotNil(t, binary.Left)
	require.NotNil(t, binary.Right)
	assert.Equal(t, m.Span{Lo: 40, Hi: 41}, binary.Left.Src)
	assert.Equal(t, m.Span{Lo: 44, Hi: 45}, binary.Right.Src)

	// Named operands also appear as ordered children.
	require.Len(t, binary.Children, 2)
	assert.Same(t, binary.Left, binary.Children[0])
	assert.Same(t, binary.Right, binary.Children[1])
}

func TestDecodeCompactASTNamedLinks(t *testing.T) {
	payload := `{
      "nodeType": "IfStatement",
      "src": "10:30:0",
      "condition": {"nodeType": "Literal", "src": "14:4:0", "kind": "bool", "value": "true"},
      "trueBody": {
        "nodeType": "ExpressionStatement",
        "src": "20:18:0",
        "expression": {
          "nodeType": "Assignment",
          "src": "22:14:0",
          "operator": "+=",
          "leftHandSide": {"nodeType": "Identifier", "src": "22:5:0"},
          "rightHandSide": {"nodeType": "Identifier", "src": "31:5:0"}
        }
      }
    }`

	root, err := DecodeCompactAST([]byte(payload))
	require.NoError(t, err)

	require.NotNil(t, root.Condition)
	assert.Equal(t, "Literal", root.Condition.NodeType)
	assert.Equal(t, "bool", root.Condition.Kind)
	assert.Equal(t, "true", root.Condition.Value)

	require.Len(t, root.Children, 2)
	body := root.Children[1]
	require.Len(t, body.Children, 1)

	assignment := body.Children[0]
	assert.Equal(t, "+=", assignment.Operator)
	require.NotNil(t, assignment.Left)
	require.NotNil(t, assignment.Right)
}

func TestDecodeCompactASTUnaryPrefix(t *testing.T) {
	payload := `{
      "nodeType": "UnaryOperation",
      "src": "5:5:0",
      "operator": "!",
      "prefix": true,
      "subExpression": {"nodeType": "Identifier", "src": "6:4:0"}
    }`

	root, err := DecodeCompactAST([]byte(payload))
	require.NoError(t, err)

	assert.True(t, root.Prefix)
	require.NotNil(t, root.Sub)
	assert.Equal(t, m.Span{Lo: 6, Hi: 10}, root.Sub.Src)
}

func TestDecodeCompactASTChildrenSortedBySource(t *testing.T) {
	// JSON map iteration order is random; the decoder must reorder children
	// by source position.
	payload := `{
      "nodeType": "SourceUnit",
      "src": "0:100:0",
      "nodes": [
        {"nodeType": "ContractDefinition", "src": "50:40:0"},
        {"nodeType": "PragmaDirective", "src": "0:24:0"}
      ]
    }`

	root, err := DecodeCompactAST([]byte(payload))
	require.NoError(t, err)

	require.Len(t, root.Children, 2)
	assert.Equal(t, "PragmaDirective", root.Children[0].NodeType)
	assert.Equal(t, "ContractDefinition", root.Children[1].NodeType)
}

func TestDecodeCompactASTErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "invalid json", payload: `{"nodeType": `},
		{name: "missing nodeType", payload: `{"src": "0:5:0"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCompactAST([]byte(tc.payload))
			require.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestExtractASTPayload(t *testing.T) {
	out := []byte("======= src/Adder.sol =======\nJSON AST (compact format):\n{\"nodeType\": \"SourceUnit\"}")
	assert.Equal(t, []byte(`{"nodeType": "SourceUnit"}`), extractASTPayload(out))

	assert.Nil(t, extractASTPayload([]byte("no ast here")))
}

func TestDecodeSrc(t *testing.T) {
	tests := []struct {
		src  string
		want m.Span
	}{
		{"40:5:0", m.Span{Lo: 40, Hi: 45}},
		{"0:0:0", m.Span{}},
		{"12:3", m.Span{Lo: 12, Hi: 15}},
		{"garbage", m.Span{}},
		{"x:5:0", m.Span{}},
		{"5:y:0", m.Span{}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, decodeSrc(tc.src), "src %q", tc.src)
	}
}
