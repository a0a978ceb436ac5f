// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package processor

import (
	"fmt"
	"jsonstrip/normalizer/internal/loader"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandInputs resolves include patterns to a sorted, de-duplicated list of
// regular files, dropping every path matched by an exclude pattern. A pattern
// without glob meta characters names a file that must exist.
func ExpandInputs(include []string, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range include {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, loader.NewArgumentError("include", fmt.Errorf("invalid pattern %q: %w", pattern, err))
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			if _, err := os.Stat(pattern); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("'%s' is not a regular file", pattern)
		}

		for _, match := range matches {
			match = filepath.Clean(match)
			if seen[match] {
				continue
			}
			excluded, err := isExcluded(match, exclude)
			if err != nil {
				return nil, err
			}
			seen[match] = true
			if !excluded {
				paths = append(paths, match)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func isExcluded(path string, exclude []string) (bool, error) {
	slashed := filepath.ToSlash(path)
	for _, pattern := range exclude {
		matched, err := doublestar.Match(filepath.ToSlash(pattern), slashed)
		if err != nil {
			return false, loader.NewArgumentError("exclude", fmt.Errorf("invalid pattern %q: %w", pattern, err))
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func hasMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}
