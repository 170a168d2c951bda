package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sheetform/pkg/form"
	"github.com/goliatone/go-sheetform/pkg/model"
)

type documentFile struct {
	Forms yaml.Node `yaml:"forms"`
}

type formFile struct {
	Title     string    `yaml:"title"`
	Worksheet string    `yaml:"worksheet"`
	Success   string    `yaml:"success"`
	Fields    yaml.Node `yaml:"fields"`
}

type fieldFile struct {
	Type        string             `yaml:"type"`
	Label       string             `yaml:"label"`
	Required    bool               `yaml:"required"`
	Options     []string           `yaml:"options"`
	Constraints *model.Constraints `yaml:"constraints"`
	Help        string             `yaml:"help"`
}

// LoadFile parses a single forms document from disk.
func LoadFile(path string) ([]form.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and parses every .yaml, .yml and .json document in lexical
// path order. Form names must be unique across files.
func LoadFS(fsys fs.FS) ([]form.Definition, error) {
	if fsys == nil {
		return nil, nil
	}

	var out []form.Definition
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		defs, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, def := range defs {
			if prior, dup := seen[def.Name]; dup {
				return fmt.Errorf("schema: duplicate form %q (files %s and %s)", def.Name, prior, path)
			}
			seen[def.Name] = path
			out = append(out, def)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Parse decodes a forms document. YAML is a superset of JSON so both formats
// go through the YAML decoder, which keeps mapping order.
func Parse(data []byte, source string) ([]form.Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("schema: file %s is empty", source)
	}

	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", source, err)
	}
	if doc.Forms.Kind == 0 {
		return nil, fmt.Errorf("schema: file %s defines no forms", source)
	}
	if doc.Forms.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema: file %s: forms must be a mapping (line %d)", source, doc.Forms.Line)
	}

	defs := make([]form.Definition, 0, len(doc.Forms.Content)/2)
	for i := 0; i+1 < len(doc.Forms.Content); i += 2 {
		name := strings.TrimSpace(doc.Forms.Content[i].Value)
		if name == "" {
			return nil, fmt.Errorf("schema: file %s defines an empty form name (line %d)", source, doc.Forms.Content[i].Line)
		}
		def, err := parseForm(name, doc.Forms.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("schema: file %s: %w", source, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseForm(name string, node *yaml.Node) (form.Definition, error) {
	var raw formFile
	if err := node.Decode(&raw); err != nil {
		return form.Definition{}, &model.ConfigurationError{Form: name, Reason: "decode form", Err: err}
	}
	if raw.Fields.Kind != yaml.MappingNode || len(raw.Fields.Content) == 0 {
		return form.Definition{}, &model.ConfigurationError{Form: name, Reason: "fields must be a non-empty mapping"}
	}

	specs := make([]model.FieldSpec, 0, len(raw.Fields.Content)/2)
	for i := 0; i+1 < len(raw.Fields.Content); i += 2 {
		key := strings.TrimSpace(raw.Fields.Content[i].Value)
		var field fieldFile
		if err := raw.Fields.Content[i+1].Decode(&field); err != nil {
			return form.Definition{}, &model.ConfigurationError{Form: name, Field: key, Reason: "decode field", Err: err}
		}
		label := strings.TrimSpace(field.Label)
		if label == "" {
			label = DefaultLabeler(key)
		}
		specs = append(specs, model.FieldSpec{
			Key:         key,
			Kind:        model.FieldKind(strings.ToLower(strings.TrimSpace(field.Type))),
			Label:       label,
			Required:    field.Required,
			Options:     field.Options,
			Constraints: field.Constraints,
			Help:        strings.TrimSpace(field.Help),
		})
	}

	schema, err := model.NewSchema(specs...)
	if err != nil {
		var cfgErr *model.ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Form = name
		}
		return form.Definition{}, err
	}

	worksheet := strings.TrimSpace(raw.Worksheet)
	if worksheet == "" {
		worksheet = name
	}
	return form.Definition{
		Name:      name,
		Title:     strings.TrimSpace(raw.Title),
		Worksheet: worksheet,
		Success:   strings.TrimSpace(raw.Success),
		Schema:    schema,
	}, nil
}

// Register adds every definition to the registry, stopping at the first error.
func Register(registry *form.Registry, defs []form.Definition) error {
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return err
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
