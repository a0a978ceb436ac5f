// Portions Copyright (c) Microsoft Corporation.

/*
Copyright 2023.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1

// NOTE: json and yaml tags are required. Any new fields you add must have both tags for the
// configuration file to be read in either format.

// NormalizerConfiguration defines how input documents are normalized
type NormalizerConfiguration struct {
	// +default="all"
	Preset   Preset          `json:"preset,omitempty" yaml:"preset,omitempty"`
	Comments *CommentOptions `json:"comments,omitempty" yaml:"comments,omitempty"`
	// Doublestar patterns of the input files.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	// +default="stdout"
	Mode   Mode         `json:"mode,omitempty" yaml:"mode,omitempty"`
	Output *DataOptions `json:"output,omitempty" yaml:"output,omitempty"`
	// +validation:Minimum=0
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
}

// CommentOptions overrides single categories of the preset. A nil field keeps the preset value.
type CommentOptions struct {
	// True if c-style block comments (/* ... */) are removed.
	BlockComments *bool `json:"blockComments,omitempty" yaml:"blockComments,omitempty"`
	// True if c-style // line comments are removed.
	SlashLineComments *bool `json:"slashLineComments,omitempty" yaml:"slashLineComments,omitempty"`
	// True if shell-style # line comments are removed.
	HashLineComments *bool `json:"hashLineComments,omitempty" yaml:"hashLineComments,omitempty"`
	// True if trailing commas are removed.
	TrailingCommas *bool `json:"trailingCommas,omitempty" yaml:"trailingCommas,omitempty"`
}

// DataOptions defines the options of rendering a normalized document
type DataOptions struct {
	// +default="default"
	Type DataType `json:"type,omitempty" yaml:"type,omitempty"`
	// The input is an App Configuration key-value export instead of a single document.
	KeyValues bool `json:"keyValues,omitempty" yaml:"keyValues,omitempty"`
	// The delimiter used to build or flatten the hierarchy of keys.
	// +validation:MaxLength=50
	// +validation:MinLength=1
	Separator       *string  `json:"separator,omitempty" yaml:"separator,omitempty"`
	TrimKeyPrefixes []string `json:"trimKeyPrefixes,omitempty" yaml:"trimKeyPrefixes,omitempty"`
}

// +validation:Enum=all;hash;c
type Preset string

const (
	PresetAll    Preset = "all"
	PresetHash   Preset = "hash"
	PresetCStyle Preset = "c"
)

// +validation:Enum=stdout;write;check
type Mode string

const (
	ModeStdout Mode = "stdout"
	ModeWrite  Mode = "write"
	ModeCheck  Mode = "check"
)

// +validation:Enum=default;json;yaml;properties
type DataType string

const (
	Default    DataType = "default"
	Properties DataType = "properties"
	Yaml       DataType = "yaml"
	Json       DataType = "json"
)
