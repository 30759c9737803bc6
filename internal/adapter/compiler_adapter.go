package adapter

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	m "solmut.dev/pkg/solmut/internal/model"
)

// BuildResult is the outcome of one compiler invocation. Hash is an opaque
// identifier, stable for identical inputs, and is the sole cache-invalidation
// key for mutation caches.
type BuildResult struct {
	Hash   string
	Ok     bool
	Output string
}

// CompilerAdapter abstracts the project build. A compile error is a normal
// outcome (Ok=false); only invocation failures are returned as errors.
type CompilerAdapter interface {
	Build(ctx context.Context, projectRoot m.Path) (BuildResult, error)
}

// ForgeCompilerAdapter builds a Foundry project by shelling out to forge.
type ForgeCompilerAdapter struct {
	binary string
}

// NewForgeCompilerAdapter constructs a ForgeCompilerAdapter using the forge
// binary found on PATH.
func NewForgeCompilerAdapter() *ForgeCompilerAdapter {
	return &ForgeCompilerAdapter{binary: "forge"}
}

// Build runs `forge build` at the project root. On success the returned hash
// fingerprints the compiler version plus every Solidity source in the
// project, so any source or toolchain change produces a fresh hash.
func (a *ForgeCompilerAdapter) Build(ctx context.Context, projectRoot m.Path) (BuildResult, error) {
	cmd := exec.CommandContext(ctx, a.binary, "build")
	cmd.Dir = string(projectRoot)

	var combined bytes.Buffer

	cmd.Stdout = &combined
	cmd.Stderr = &combined

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Debug("forge build failed", "root", projectRoot, "output", combined.String())
			return BuildResult{Ok: false, Output: combined.String()}, nil
		}

		return BuildResult{}, fmt.Errorf("failed to invoke forge: %w", err)
	}

	hash, err := a.buildHash(ctx, projectRoot)
	if err != nil {
		return BuildResult{}, err
	}

	return BuildResult{Hash: hash, Ok: true, Output: combined.String()}, nil
}

// buildHash digests the compiler identification and the full sorted source
// set. It deliberately ignores artifacts so the hash is reproducible across
// machines.
func (a *ForgeCompilerAdapter) buildHash(ctx context.Context, projectRoot m.Path) (string, error) {
	h := sha256.New()

	version, err := exec.CommandContext(ctx, a.binary, "--version").Output()
	if err == nil {
		h.Write(version)
	}

	var sources []string

	err = filepath.Walk(string(projectRoot), func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if base == ".git" || base == "out" || base == "cache" || base == "node_modules" {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.HasSuffix(path, ".sol") {
			sources = append(sources, path)
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to enumerate sources: %w", err)
	}

	sort.Strings(sources)

	for _, source := range sources {
		content, readErr := os.ReadFile(source)
		if readErr != nil {
			return "", fmt.Errorf("failed to read %s: %w", source, readErr)
		}

		rel, relErr := filepath.Rel(string(projectRoot), source)
		if relErr != nil {
			rel = source
		}

		h.Write([]byte(rel))
		h.Write(content)
	}

	return fmt.Sprintf("%x", h.Sum(nil))[:16], nil
}
