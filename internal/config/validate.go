package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidIndent indicates a code indent outside the supported range
	ErrInvalidIndent = errors.New("invalid code indent")

	// ErrEmptyDataDir indicates a missing data directory
	ErrEmptyDataDir = errors.New("empty data directory")

	// ErrAbsoluteDataDir indicates a data directory that is not project-relative
	ErrAbsoluteDataDir = errors.New("data directory must be relative")
)

// Validate checks that the configuration is usable.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.CodeIndent < MinCodeIndent || cfg.CodeIndent > MaxCodeIndent {
		errs = append(errs, fmt.Errorf("%w: codeIndent must be between %d and %d, got %d", ErrInvalidIndent, MinCodeIndent, MaxCodeIndent, cfg.CodeIndent))
	}

	dataDir := strings.TrimSpace(cfg.DataDir)
	switch {
	case dataDir == "":
		errs = append(errs, fmt.Errorf("%w: ipcDataDir is required", ErrEmptyDataDir))
	case filepath.IsAbs(dataDir) || strings.HasPrefix(dataDir, "/"):
		errs = append(errs, fmt.Errorf("%w: ipcDataDir must be relative to the project root, got '%s'", ErrAbsoluteDataDir, cfg.DataDir))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// Every input stays reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	verbs := strings.Repeat("\n  - %w", len(errs))
	args := make([]any, len(errs))
	for i, err := range errs {
		args[i] = err
	}

	return fmt.Errorf("validation failed:"+verbs, args...)
}
