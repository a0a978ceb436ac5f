// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package properties

var (
	// Overwritten with '-ldflags "-X jsonstrip/normalizer/internal/properties.ModuleVersion=..."' at release build time.
	ModuleVersion string = "develop"
	ModuleName    string = "jsonstrip"
)
