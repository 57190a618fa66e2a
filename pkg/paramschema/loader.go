package paramschema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds parameter definitions loaded from schema files, keyed by
// parameter name.
type Store struct {
	parameters map[string]Parameter
}

// LoadFS walks the provided filesystem and parses JSON/YAML parameter
// definition files. When fsys is nil or no schema files are present, the
// returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{parameters: make(map[string]Parameter)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("paramschema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for _, param := range doc.Parameters {
			name := strings.TrimSpace(param.Name)
			if name == "" {
				return fmt.Errorf("paramschema: file %s defines a parameter with an empty name", path)
			}
			if _, exists := store.parameters[name]; exists {
				return fmt.Errorf("paramschema: duplicate parameter %q (file %s)", name, path)
			}
			if err := validateParameter(param, path); err != nil {
				return err
			}
			param.Name = name
			store.parameters[name] = param
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Parameter returns the definition for the supplied parameter name.
func (s *Store) Parameter(name string) (Parameter, bool) {
	if s == nil {
		return Parameter{}, false
	}
	param, ok := s.parameters[name]
	return param, ok
}

// Names returns the loaded parameter names in unspecified order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.parameters))
	for name := range s.parameters {
		names = append(names, name)
	}
	return names
}

// Empty reports whether the store holds any parameters.
func (s *Store) Empty() bool {
	return s == nil || len(s.parameters) == 0
}

type documentFile struct {
	Parameters []Parameter `json:"parameters" yaml:"parameters"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("paramschema: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("paramschema: parse %s: invalid JSON or YAML", source)
}

func validateParameter(param Parameter, source string) error {
	seen := make(map[string]struct{}, len(param.Options))
	for _, group := range param.Options {
		name := strings.TrimSpace(group.Name)
		if name == "" {
			return fmt.Errorf("paramschema: parameter %q (file %s) declares an option group with an empty name", param.Name, source)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("paramschema: parameter %q (file %s) declares duplicate option group %q", param.Name, source, name)
		}
		seen[name] = struct{}{}

		fields := make(map[string]struct{}, len(group.Values))
		for _, field := range group.Values {
			fieldName := strings.TrimSpace(field.Name)
			if fieldName == "" {
				return fmt.Errorf("paramschema: option group %q (file %s) declares a field with an empty name", name, source)
			}
			if _, exists := fields[fieldName]; exists {
				return fmt.Errorf("paramschema: option group %q (file %s) declares duplicate field %q", name, source, fieldName)
			}
			fields[fieldName] = struct{}{}
		}
	}
	return nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
