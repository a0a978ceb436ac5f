// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package loader

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Tree expands separator-delimited keys into nested objects and arrays.
type Tree struct {
	children map[string]*Tree
	value    any
}

func (t *Tree) insert(parts []string, value any) {
	tree := t
	for i, part := range parts {
		if tree.children == nil {
			tree.children = make(map[string]*Tree)
		}

		childTree, ok := tree.children[part]
		if !ok {
			childTree = &Tree{}
			tree.children[part] = childTree
		}

		tree = childTree
		if i == len(parts)-1 {
			switch obj := value.(type) {
			case map[string]any:
				for k, v := range obj {
					tree.insert([]string{k}, v)
				}
			case []any:
				for k, v := range obj {
					tree.insert([]string{strconv.Itoa(k)}, v)
				}
			default:
				tree.value = value
			}
		}
	}
}

func (t *Tree) build() map[string]any {
	result := make(map[string]any)
	for k, v := range t.children {
		result[k] = v.unflatten()
	}

	return result
}

// unflatten turns a node whose children are exactly 0..n-1 into an array.
func (t *Tree) unflatten() any {
	if len(t.children) == 0 {
		return t.value
	}

	isArray := true
	childrenArray := make([]*Tree, len(t.children))

	for k, v := range t.children {
		idx, err := strconv.Atoi(k)
		if err != nil || idx >= len(t.children) || idx < 0 {
			isArray = false
			break
		}
		childrenArray[idx] = v
	}

	if isArray {
		result := make([]any, len(childrenArray))
		for i, child := range childrenArray {
			result[i] = child.unflatten()
		}
		return result
	}

	result := make(map[string]any)
	for k, child := range t.children {
		result[k] = child.unflatten()
	}

	return result
}

// flatten is the inverse of Tree: it writes every leaf of a decoded document
// under its separator-joined path.
func flatten(prefix string, value any, separator string, out map[string]string) error {
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + separator + key
	}

	switch obj := value.(type) {
	case map[string]any:
		for k, v := range obj {
			if err := flatten(join(k), v, separator, out); err != nil {
				return err
			}
		}
	case []any:
		for i, v := range obj {
			if err := flatten(join(strconv.Itoa(i)), v, separator, out); err != nil {
				return err
			}
		}
	case string:
		out[prefix] = obj
	case nil:
		out[prefix] = ""
	default:
		b, err := json.Marshal(obj)
		if err != nil {
			return fmt.Errorf("Failed to flatten value of '%s': %s", prefix, err.Error())
		}
		out[prefix] = string(b)
	}

	return nil
}
