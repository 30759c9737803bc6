package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	m "solmut.dev/pkg/solmut/internal/model"
)

// ErrParse marks a file-scoped parse failure: the contract is malformed but
// the parser itself is functional. Callers skip the file and continue.
var ErrParse = errors.New("solidity parse error")

// SolidityParserAdapter abstracts the Solidity parser. The catalog only needs
// node kinds, operator/literal values and byte-offset spans, which the
// returned AST surfaces.
type SolidityParserAdapter interface {
	// Parse returns the AST of the given source text. The path is a file
	// identifier used for diagnostics and span attribution.
	Parse(ctx context.Context, path m.Path, source []byte) (*m.ASTNode, error)
}

// SolcParserAdapter shells out to solc and decodes its compact-JSON AST.
type SolcParserAdapter struct {
	binary string
}

// NewSolcParserAdapter constructs a SolcParserAdapter using the solc binary
// found on PATH.
func NewSolcParserAdapter() *SolcParserAdapter {
	return &SolcParserAdapter{binary: "solc"}
}

// Parse invokes `solc --stop-after parsing --ast-compact-json` on the file at
// path and decodes the emitted AST. A non-zero exit wraps ErrParse; inability
// to invoke solc at all is returned as-is and treated as fatal upstream.
func (a *SolcParserAdapter) Parse(ctx context.Context, path m.Path, _ []byte) (*m.ASTNode, error) {
	cmd := exec.CommandContext(ctx, a.binary, "--stop-after", "parsing", "--ast-compact-json", string(path))

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Debug("solc rejected contract", "path", path, "stderr", stderr.String())
			return nil, fmt.Errorf("%w: %s: %s", ErrParse, path, strings.TrimSpace(stderr.String()))
		}

		return nil, fmt.Errorf("failed to invoke solc: %w", err)
	}

	payload := extractASTPayload(stdout.Bytes())
	if payload == nil {
		return nil, fmt.Errorf("%w: %s: no AST in solc output", ErrParse, path)
	}

	return DecodeCompactAST(payload)
}

// extractASTPayload isolates the JSON document from solc's annotated output
// (a "======= path =======" header precedes the AST).
func extractASTPayload(out []byte) []byte {
	idx := bytes.IndexByte(out, '{')
	if idx < 0 {
		return nil
	}

	return out[idx:]
}

// DecodeCompactAST converts a compact-JSON AST document into the read-only
// node tree the mutation catalog consumes. Children are ordered by source
// position so traversal order is deterministic.
func DecodeCompactAST(payload []byte) (*m.ASTNode, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding compact AST: %v", ErrParse, err)
	}

	node := decodeNode(raw)
	if node == nil {
		return nil, fmt.Errorf("%w: compact AST root has no nodeType", ErrParse)
	}

	return node, nil
}

func decodeNode(raw map[string]any) *m.ASTNode {
	nodeType, ok := raw["nodeType"].(string)
	if !ok {
		return nil
	}

	node := &m.ASTNode{NodeType: nodeType}

	if src, ok := raw["src"].(string); ok {
		node.Src = decodeSrc(src)
	}

	if op, ok := raw["operator"].(string); ok {
		node.Operator = op
	}

	if prefix, ok := raw["prefix"].(bool); ok {
		node.Prefix = prefix
	}

	if kind, ok := raw["kind"].(string); ok {
		node.Kind = kind
	}

	if value, ok := raw["value"].(string); ok {
		node.Value = value
	}

	for key, field := range raw {
		switch v := field.(type) {
		case map[string]any:
			child := decodeNode(v)
			if child == nil {
				continue
			}

			node.Children = append(node.Children, child)
			linkNamedChild(node, key, child)
		case []any:
			for _, entry := range v {
				sub, ok := entry.(map[string]any)
				if !ok {
					continue
				}

				if child := decodeNode(sub); child != nil {
					node.Children = append(node.Children, child)
				}
			}
		}
	}

	sort.SliceStable(node.Children, func(i, j int) bool {
		if node.Children[i].Src.Lo != node.Children[j].Src.Lo {
			return node.Children[i].Src.Lo < node.Children[j].Src.Lo
		}

		return node.Children[i].Src.Hi < node.Children[j].Src.Hi
	})

	return node
}

func linkNamedChild(node *m.ASTNode, key string, child *m.ASTNode) {
	switch key {
	case "leftExpression", "leftHandSide":
		node.Left = child
	case "rightExpression", "rightHandSide":
		node.Right = child
	case "subExpression":
		node.Sub = child
	case "condition":
		node.Condition = child
	}
}

// decodeSrc parses solc's "start:length:fileIndex" span encoding.
func decodeSrc(src string) m.Span {
	parts := strings.SplitN(src, ":", 3)
	if len(parts) < 2 {
		return m.Span{}
	}

	start, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return m.Span{}
	}

	length, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return m.Span{}
	}

	return m.Span{Lo: uint32(start), Hi: uint32(start + length)}
}
