// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package loader

import (
	"encoding/json"
	"fmt"
	nrmv1 "jsonstrip/normalizer/api/v1"
	"jsonstrip/normalizer/internal/jsonc"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azappconfig/v2"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

const (
	KeyVaultReferenceContentType string = "application/vnd.microsoft.appconfig.keyvaultref+json;charset=utf-8"
	FeatureFlagContentType       string = "application/vnd.microsoft.appconfig.ff+json;charset=utf-8"
	DefaultSeparator             string = "."
)

var jsonContentTypePattern = regexp.MustCompile(`^application\/(?:[^\/]+\+)?json(;.*)?$`)

type RawSettings struct {
	KeyValueSettings     map[string]*string
	IsJsonContentTypeMap map[string]bool
}

// exportedSetting is one entry of an App Configuration key-value export.
type exportedSetting struct {
	Key         string  `json:"key"`
	Value       *string `json:"value"`
	Label       *string `json:"label,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
}

// ParseExport reads an App Configuration key-value export. The export itself
// may carry comments and trailing commas.
func ParseExport(data []byte, settings jsonc.CommentSettings) ([]azappconfig.Setting, error) {
	var exported []exportedSetting
	if err := DecodeJSONC(data, settings, &exported); err != nil {
		return nil, fmt.Errorf("Failed to parse key-value export: %w", err)
	}

	result := make([]azappconfig.Setting, 0, len(exported))
	for i, setting := range exported {
		if setting.Key == "" {
			return nil, NewArgumentError(fmt.Sprintf("[%d].key", i), fmt.Errorf("key of the setting is required"))
		}
		result = append(result, azappconfig.Setting{
			Key:         to.Ptr(setting.Key),
			Value:       setting.Value,
			Label:       setting.Label,
			ContentType: setting.ContentType,
		})
	}

	return result, nil
}

func NewRawSettings(settings []azappconfig.Setting, trimKeyPrefixes []string) *RawSettings {
	rawSettings := &RawSettings{
		KeyValueSettings:     make(map[string]*string),
		IsJsonContentTypeMap: make(map[string]bool),
	}

	for _, setting := range settings {
		if setting.Key == nil {
			continue
		}
		trimmedKey := trimPrefix(*setting.Key, trimKeyPrefixes)
		if len(trimmedKey) == 0 {
			klog.Warningf("key of the setting '%s' is trimmed to the empty string, just ignore it", *setting.Key)
			continue
		}

		if setting.ContentType == nil {
			rawSettings.KeyValueSettings[trimmedKey] = setting.Value
			rawSettings.IsJsonContentTypeMap[trimmedKey] = false
			continue
		}
		switch *setting.ContentType {
		case FeatureFlagContentType, KeyVaultReferenceContentType:
			klog.V(3).Infof("Skip the setting '%s' with content type '%s'", *setting.Key, *setting.ContentType)
			continue
		default:
			rawSettings.KeyValueSettings[trimmedKey] = setting.Value
			rawSettings.IsJsonContentTypeMap[trimmedKey] = isJsonContentType(setting.ContentType)
		}
	}

	return rawSettings
}

// CreateTypedSettings renders key-values in the requested format. Values with a
// JSON content type are normalized as JSONC and embedded as structured data
// for json and yaml output.
func CreateTypedSettings(rawSettings *RawSettings, dataOptions *nrmv1.DataOptions, settings jsonc.CommentSettings) (string, error) {
	if len(rawSettings.KeyValueSettings) == 0 {
		return "", nil
	}

	if dataOptions == nil || dataOptions.Type == nrmv1.Default || dataOptions.Type == nrmv1.Properties {
		tmpSettings := make(map[string]string)
		for k, v := range rawSettings.KeyValueSettings {
			if v != nil {
				tmpSettings[k] = *v
			} else {
				klog.Warningf("value of the setting '%s' is null, just ignore it", k)
			}
		}

		return marshalProperties(tmpSettings), nil
	}

	// dataOptions.Type = json or yaml
	root := &Tree{}
	parsedSettings := make(map[string]any)
	for k, v := range rawSettings.KeyValueSettings {
		var value any = nil
		if v != nil {
			value = *v
			if rawSettings.IsJsonContentTypeMap[k] {
				var out any
				if err := DecodeJSONC([]byte(*v), settings, &out); err != nil {
					return "", fmt.Errorf("Failed to unmarshal json value for key '%s': %w", k, err)
				}
				value = out
			}
		}

		if dataOptions.Separator != nil {
			root.insert(strings.Split(k, *dataOptions.Separator), value)
		} else {
			parsedSettings[k] = value
		}
	}

	if dataOptions.Separator != nil {
		parsedSettings = root.build()
	}

	return marshalJsonYaml(parsedSettings, dataOptions)
}

// RenderDocument normalizes a single JSONC document and renders it in the
// requested format. The default type returns the normalized text itself.
func RenderDocument(data []byte, dataOptions *nrmv1.DataOptions, settings jsonc.CommentSettings) (string, error) {
	if dataOptions == nil || dataOptions.Type == nrmv1.Default {
		normalized := make([]byte, len(data))
		copy(normalized, data)
		if err := jsonc.Strip(normalized, settings); err != nil {
			return "", err
		}
		return string(normalized), nil
	}

	var document any
	if err := DecodeJSONC(data, settings, &document); err != nil {
		return "", err
	}

	if dataOptions.Type == nrmv1.Properties {
		separator := DefaultSeparator
		if dataOptions.Separator != nil {
			separator = *dataOptions.Separator
		}
		flattened := make(map[string]string)
		if err := flatten("", document, separator, flattened); err != nil {
			return "", err
		}
		return marshalProperties(flattened), nil
	}

	return marshalJsonYaml(document, dataOptions)
}

// marshalProperties writes key=value lines in key order.
func marshalProperties(settings map[string]string) string {
	stringBuilder := strings.Builder{}
	separator := "\n"
	for i, k := range slices.Sorted(maps.Keys(settings)) {
		if i > 0 {
			stringBuilder.WriteString(separator)
		}
		stringBuilder.WriteString(fmt.Sprintf("%s=%s", k, settings[k]))
	}

	return stringBuilder.String()
}

func isJsonContentType(contentType *string) bool {
	if contentType == nil {
		return false
	}
	contentTypeStr := strings.ToLower(strings.Trim(*contentType, " "))
	return jsonContentTypePattern.MatchString(contentTypeStr)
}

func marshalJsonYaml(settings any, dataOptions *nrmv1.DataOptions) (string, error) {
	switch dataOptions.Type {
	case nrmv1.Yaml:
		yamlStr, err := yaml.Marshal(settings)
		if err != nil {
			return "", fmt.Errorf("Failed to marshal key-values to yaml: %s", err.Error())
		}
		return string(yamlStr), nil
	case nrmv1.Json:
		jsonStr, err := json.Marshal(settings)
		if err != nil {
			return "", fmt.Errorf("Failed to marshal key-values to json: %s", err.Error())
		}
		return string(jsonStr), nil
	}

	return "", fmt.Errorf("Unsupported data type '%s', only supports json/yaml for now", dataOptions.Type)
}

func trimPrefix(key string, prefixToTrim []string) string {
	for _, v := range prefixToTrim {
		if strings.HasPrefix(key, v) {
			return strings.TrimPrefix(key, v)
		}
	}

	return key
}
