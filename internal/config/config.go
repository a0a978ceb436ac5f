// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	nrmv1 "jsonstrip/normalizer/api/v1"
	"jsonstrip/normalizer/internal/jsonc"
	"jsonstrip/normalizer/internal/loader"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

const (
	MaxSeparatorLength int = 50
)

func Default() *nrmv1.NormalizerConfiguration {
	return &nrmv1.NormalizerConfiguration{
		Preset: nrmv1.PresetAll,
		Mode:   nrmv1.ModeStdout,
	}
}

// Load reads a configuration file. YAML is a superset of JSON, so both formats are accepted.
func Load(path string) (*nrmv1.NormalizerConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("Failed to load configuration '%s': %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*nrmv1.NormalizerConfiguration, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// Verify reports every invalid field of cfg.
func Verify(cfg *nrmv1.NormalizerConfiguration) error {
	var errs []error

	switch cfg.Preset {
	case "", nrmv1.PresetAll, nrmv1.PresetHash, nrmv1.PresetCStyle:
	default:
		errs = append(errs, loader.NewArgumentError("preset", fmt.Errorf("unsupported preset '%s', must be one of all, hash or c", cfg.Preset)))
	}

	switch cfg.Mode {
	case "", nrmv1.ModeStdout, nrmv1.ModeWrite, nrmv1.ModeCheck:
	default:
		errs = append(errs, loader.NewArgumentError("mode", fmt.Errorf("unsupported mode '%s', must be one of stdout, write or check", cfg.Mode)))
	}

	if cfg.Concurrency < 0 {
		errs = append(errs, loader.NewArgumentError("concurrency", fmt.Errorf("concurrency must not be negative")))
	}

	errs = append(errs, verifyPatterns("include", cfg.Include)...)
	errs = append(errs, verifyPatterns("exclude", cfg.Exclude)...)

	if cfg.Output != nil {
		errs = append(errs, verifyDataOptions(cfg.Output, cfg.Mode)...)
	}

	return utilerrors.NewAggregate(errs)
}

func verifyPatterns(field string, patterns []string) []error {
	var errs []error
	for i, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, loader.NewArgumentError(fmt.Sprintf("%s[%d]", field, i), fmt.Errorf("pattern %q is not a valid glob", pattern)))
		}
	}
	return errs
}

func verifyDataOptions(output *nrmv1.DataOptions, mode nrmv1.Mode) []error {
	var errs []error
	switch output.Type {
	case "", nrmv1.Default, nrmv1.Properties, nrmv1.Json, nrmv1.Yaml:
	default:
		errs = append(errs, loader.NewArgumentError("output.type", fmt.Errorf("unsupported type '%s'", output.Type)))
	}

	if output.Separator != nil {
		if len(*output.Separator) == 0 || len(*output.Separator) > MaxSeparatorLength {
			errs = append(errs, loader.NewArgumentError("output.separator", fmt.Errorf("separator length must be between 1 and %d", MaxSeparatorLength)))
		}
		if output.Type == "" || output.Type == nrmv1.Default {
			errs = append(errs, loader.NewArgumentError("output.separator", fmt.Errorf("separator field is not allowed when type is default")))
		}
	}

	if output.KeyValues && mode == nrmv1.ModeWrite {
		errs = append(errs, loader.NewArgumentError("output.keyValues", fmt.Errorf("key-value exports can not be written in place")))
	}
	if output.Type != "" && output.Type != nrmv1.Default && mode == nrmv1.ModeWrite {
		errs = append(errs, loader.NewArgumentError("output.type", fmt.Errorf("type %s can not be written in place", output.Type)))
	}

	return errs
}

// CommentSettings resolves the preset and its per-category overrides.
func CommentSettings(cfg *nrmv1.NormalizerConfiguration) jsonc.CommentSettings {
	var settings jsonc.CommentSettings
	switch cfg.Preset {
	case nrmv1.PresetHash:
		settings = jsonc.HashOnly()
	case nrmv1.PresetCStyle:
		settings = jsonc.CStyle()
	default:
		settings = jsonc.AllEnabled()
	}

	if cfg.Comments == nil {
		return settings
	}
	override(&settings.BlockComments, cfg.Comments.BlockComments)
	override(&settings.SlashLineComments, cfg.Comments.SlashLineComments)
	override(&settings.HashLineComments, cfg.Comments.HashLineComments)
	override(&settings.TrailingCommas, cfg.Comments.TrailingCommas)
	return settings
}

func override(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}
