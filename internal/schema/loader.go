package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type entityDoc struct {
	Name      string            `yaml:"name"`
	Table     string            `yaml:"table"`
	Actions   []Action          `yaml:"actions"`
	Default   bool              `yaml:"default"`
	ListLimit int               `yaml:"list_limit"`
	Templates map[Action]string `yaml:"templates"`
	Fields    []*Field          `yaml:"fields"`
}

type schemaDoc struct {
	Entities []entityDoc `yaml:"entities"`
}

// Parse builds entities from a YAML schema document and adds them to the
// registry. Validators cannot be declared in YAML; attach them in code
// after loading.
func Parse(data []byte, reg *Registry) error {
	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}
	for _, ed := range doc.Entities {
		actions := ed.Actions
		if actions == nil {
			actions = []Action{ActionList, ActionShow, ActionNew, ActionEdit, ActionDelete}
		}
		e := NewEntity(ed.Name, actions...)
		if ed.Table != "" {
			e.Table = ed.Table
		}
		e.Default = ed.Default
		e.ListLimit = ed.ListLimit
		e.Templates = ed.Templates
		for _, f := range ed.Fields {
			if f.Type == "" {
				f.Type = TypeString
			}
			if err := e.AddField(f); err != nil {
				return err
			}
		}
		if err := reg.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads a YAML schema file into the registry.
func LoadFile(path string, reg *Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", path, err)
	}
	return Parse(data, reg)
}
