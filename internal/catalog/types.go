package catalog

import "gopkg.in/yaml.v3"

// Model is one selectable model of a backend
type Model struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	// Display information
	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`

	Default   bool `yaml:"default" json:"default"`
	MaxOutput int  `yaml:"max_output" json:"max_output"`
}

// Backend lists the models of one backend
type Backend struct {
	Name        string `yaml:"backend" json:"name"`
	DisplayName string `yaml:"display_name" json:"display_name"`

	// AllowCustomModels accepts model names missing from Models (passed through as-is)
	AllowCustomModels bool `yaml:"allow_custom_models" json:"allow_custom_models"`

	Models []Model `yaml:"-" json:"models"` // Ordered slice, populated by custom unmarshaler
}

// DefaultModel returns the model marked default, the first model, or "" for none
func (b *Backend) DefaultModel() string {
	for _, m := range b.Models {
		if m.Default {
			return m.ID
		}
	}
	if len(b.Models) > 0 {
		return b.Models[0].ID
	}
	return ""
}

// UnmarshalYAML implements custom YAML unmarshaling to preserve model order from YAML file
func (b *Backend) UnmarshalYAML(node *yaml.Node) error {
	type plain struct {
		Name              string           `yaml:"backend"`
		DisplayName       string           `yaml:"display_name"`
		AllowCustomModels bool             `yaml:"allow_custom_models"`
		Models            map[string]Model `yaml:"models"`
	}
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	b.Name = p.Name
	b.DisplayName = p.DisplayName
	b.AllowCustomModels = p.AllowCustomModels
	b.Models = nil

	// Walk the models mapping node to keep keys in file order
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		modelsNode := node.Content[i+1]
		for j := 0; j+1 < len(modelsNode.Content); j += 2 {
			id := modelsNode.Content[j].Value
			if model, ok := p.Models[id]; ok {
				model.ID = id
				b.Models = append(b.Models, model)
			}
		}
		break
	}

	return nil
}
