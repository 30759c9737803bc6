package domain

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"solmut.dev/pkg/solmut/internal/adapter"
	m "solmut.dev/pkg/solmut/internal/model"
)

// ErrInvalidSpan marks a mutant whose span does not fit the source buffer.
var ErrInvalidSpan = errors.New("mutation span out of bounds")

// Cache file extensions, one independent artifact each.
const (
	cacheExtMutants  = ".mutants"
	cacheExtResults  = ".results"
	cacheExtSurvived = ".survived"
)

// MutationHandler orchestrates mutation of a single contract file: it owns
// the immutable original source buffer, drives AST parsing and mutant
// generation, applies one mutant at a time to disk, restores the original,
// and reads/writes the per-file caches keyed by build hash.
type MutationHandler struct {
	contractPath m.Path
	mutationDir  m.Path
	fs           adapter.SourceFSAdapter
	parser       adapter.SolidityParserAdapter

	source []byte

	// Mutations holds the candidates discovered by GenerateAST, in traversal
	// order.
	Mutations []m.Mutant
}

// NewMutationHandler creates a handler for one contract file. mutationDir is
// the cache directory; contractPath should be absolute so the cache filename
// hash is stable.
func NewMutationHandler(contractPath, mutationDir m.Path, fs adapter.SourceFSAdapter, parser adapter.SolidityParserAdapter) *MutationHandler {
	return &MutationHandler{
		contractPath: contractPath,
		mutationDir:  mutationDir,
		fs:           fs,
		parser:       parser,
	}
}

// ContractPath returns the path of the file being mutated.
func (h *MutationHandler) ContractPath() m.Path {
	return h.contractPath
}

// Source returns the original source snapshot. Callers must not modify it.
func (h *MutationHandler) Source() []byte {
	return h.source
}

// ReadSourceContract loads the contract into the in-memory original buffer.
func (h *MutationHandler) ReadSourceContract() error {
	content, err := h.fs.ReadFile(h.contractPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", h.contractPath, err)
	}

	h.source = content

	return nil
}

// GenerateAST parses the contract and appends every candidate mutant the
// enabled operators propose, pruning subtrees the skip predicate matches.
// When silent is false the number of adaptively skipped mutation points is
// reported.
func (h *MutationHandler) GenerateAST(ctx context.Context, kinds []m.MutationKind, skip SkipFunc, silent bool) error {
	root, err := h.parser.Parse(ctx, h.contractPath, h.source)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", h.contractPath, err)
	}

	visitor := NewMutantVisitor(h.contractPath, h.source, kinds, skip)
	visitor.Visit(root)

	h.Mutations = append(h.Mutations, visitor.Mutants...)

	if !silent && visitor.SkippedSubtrees > 0 {
		slog.Info("skipped mutation points through survived-span matching",
			"path", h.contractPath, "skipped", visitor.SkippedSubtrees)
	}

	return nil
}

// GenerateMutatedSolidity splices the mutant's replacement into the original
// buffer and overwrites the contract on disk. The original buffer is left
// untouched.
func (h *MutationHandler) GenerateMutatedSolidity(mutant m.Mutant) error {
	lo, hi := int(mutant.Span.Lo), int(mutant.Span.Hi)
	if lo > hi || hi > len(h.source) {
		return fmt.Errorf("%w: [%d, %d) in %d bytes", ErrInvalidSpan, lo, hi, len(h.source))
	}

	mutated := make([]byte, 0, len(h.source)-(hi-lo)+len(mutant.Mutation))
	mutated = append(mutated, h.source[:lo]...)
	mutated = append(mutated, mutant.Mutation...)
	mutated = append(mutated, h.source[hi:]...)

	if err := h.fs.WriteFile(h.contractPath, mutated, 0o644); err != nil {
		return fmt.Errorf("failed to write mutated source: %w", err)
	}

	return nil
}

// RestoreOriginalSource overwrites the contract with the untouched original
// buffer. It must run after every mutant application, on every exit path.
func (h *MutationHandler) RestoreOriginalSource() error {
	if h.source == nil {
		return nil
	}

	if err := h.fs.WriteFile(h.contractPath, h.source, 0o644); err != nil {
		return fmt.Errorf("failed to restore %s: %w", h.contractPath, err)
	}

	return nil
}

// cacheFilenamePrefix disambiguates same-named contracts in different
// directories by appending a stable hash of the absolute path to the stem.
func (h *MutationHandler) cacheFilenamePrefix() string {
	stem := strings.TrimSuffix(filepath.Base(string(h.contractPath)), filepath.Ext(string(h.contractPath)))
	pathHash := sha256.Sum256([]byte(h.contractPath))

	return fmt.Sprintf("%s_%x", stem, pathHash[:4])
}

func (h *MutationHandler) cachePath(buildHash, ext string) m.Path {
	return h.fs.JoinPath(string(h.mutationDir), fmt.Sprintf("%s_%s%s", buildHash, h.cacheFilenamePrefix(), ext))
}

// persistCache writes a pretty-printed JSON cache artifact. Write failures
// propagate; the caller decides whether they are fatal.
func (h *MutationHandler) persistCache(buildHash, ext string, value any) error {
	if err := h.fs.MkdirAll(h.mutationDir, 0o750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	path := h.cachePath(buildHash, ext)
	if err := h.fs.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write cache %s: %w", path, err)
	}

	return nil
}

// retrieveCache reads a cache artifact. Any failure is a cache miss.
func (h *MutationHandler) retrieveCache(buildHash, ext string, value any) bool {
	path := h.cachePath(buildHash, ext)

	payload, err := h.fs.ReadFile(path)
	if err != nil {
		return false
	}

	if err := json.Unmarshal(payload, value); err != nil {
		slog.Debug("discarding corrupt cache file", "path", path, "error", err)
		return false
	}

	return true
}

// PersistCachedMutants saves the discovered mutant list for this build hash.
func (h *MutationHandler) PersistCachedMutants(buildHash string) error {
	return h.persistCache(buildHash, cacheExtMutants, h.Mutations)
}

// RetrieveCachedMutants loads a previously persisted mutant list.
func (h *MutationHandler) RetrieveCachedMutants(buildHash string) ([]m.Mutant, bool) {
	var mutants []m.Mutant
	if !h.retrieveCache(buildHash, cacheExtMutants, &mutants) {
		return nil, false
	}

	return mutants, true
}

// PersistCachedResults saves classified outcomes for this build hash.
func (h *MutationHandler) PersistCachedResults(buildHash string, outcomes []m.MutantOutcome) error {
	return h.persistCache(buildHash, cacheExtResults, outcomes)
}

// RetrieveCachedMutantResults loads previously classified outcomes.
func (h *MutationHandler) RetrieveCachedMutantResults(buildHash string) ([]m.MutantOutcome, bool) {
	var outcomes []m.MutantOutcome
	if !h.retrieveCache(buildHash, cacheExtResults, &outcomes) {
		return nil, false
	}

	return outcomes, true
}

// PersistSurvivedSpans saves the survived-span set as an ordered (lo,hi) list.
func (h *MutationHandler) PersistSurvivedSpans(buildHash string, spans *SurvivedSpans) error {
	pairs := make([][2]uint32, 0, spans.Len())
	for _, span := range spans.Spans() {
		pairs = append(pairs, [2]uint32{span.Lo, span.Hi})
	}

	return h.persistCache(buildHash, cacheExtSurvived, pairs)
}

// RetrieveSurvivedSpans rebuilds a tracker from a persisted span list.
func (h *MutationHandler) RetrieveSurvivedSpans(buildHash string) (*SurvivedSpans, bool) {
	var pairs [][2]uint32
	if !h.retrieveCache(buildHash, cacheExtSurvived, &pairs) {
		return nil, false
	}

	spans := NewSurvivedSpans()
	for _, pair := range pairs {
		spans.MarkSurvived(m.Span{Lo: pair[0], Hi: pair[1]})
	}

	return spans, true
}
