// Package config provides configuration types, defaults, and persistence for stagewise.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SaveViewMode persists the ui.view_mode setting, preserving comments and
// formatting in other sections.
func SaveViewMode(configPath, mode string) error {
	return saveSetting(configPath, []string{"ui", "view_mode"}, scalarNode(mode))
}

// SaveContextLines persists the diff.context_lines setting.
func SaveContextLines(configPath string, lines int) error {
	return saveSetting(configPath, []string{"diff", "context_lines"}, intNode(lines))
}

// SaveIgnoreWhitespace persists the diff.ignore_whitespace setting.
func SaveIgnoreWhitespace(configPath string, on bool) error {
	return saveSetting(configPath, []string{"diff", "ignore_whitespace"}, boolNode(on))
}

// SaveAutoRefresh persists the auto_refresh setting.
func SaveAutoRefresh(configPath string, on bool) error {
	return saveSetting(configPath, []string{"auto_refresh"}, boolNode(on))
}

// SaveThemePreset persists the theme.preset setting.
func SaveThemePreset(configPath, preset string) error {
	return saveSetting(configPath, []string{"theme", "preset"}, scalarNode(preset))
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func intNode(value int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)}
}

func boolNode(value bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)}
}

// saveSetting updates one scalar at a nested key path in the config file.
// The file is parsed into yaml.Node so comments and formatting elsewhere
// survive the rewrite; missing intermediate mappings are created.
func saveSetting(configPath string, path []string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user's own config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	node := doc.Content[0]
	for i, key := range path {
		last := i == len(path)-1

		var child *yaml.Node
		for j := 0; j < len(node.Content)-1; j += 2 {
			if node.Content[j].Value == key {
				if last {
					node.Content[j+1] = value
				}
				child = node.Content[j+1]
				break
			}
		}
		if child == nil {
			if last {
				child = value
			} else {
				child = &yaml.Node{Kind: yaml.MappingNode}
			}
			node.Content = append(node.Content, scalarNode(key), child)
		}
		if !last {
			if child.Kind != yaml.MappingNode {
				return fmt.Errorf("config key %q is not a mapping", key)
			}
			node = child
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// writeAtomic writes to a temp file in the target directory and renames it
// into place so a crash mid-write can't truncate the config.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".stagewise.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
