package preset

import (
	"fmt"
	"os"
	"strings"

	"github.com/BaSui01/macd/types"
	"gopkg.in/yaml.v3"
)

// RoleSpec is a role definition without a topic.
type RoleSpec struct {
	Name     string `yaml:"name" json:"name"`
	Position string `yaml:"position" json:"position"`
}

// Preset is a named set of role definitions.
type Preset struct {
	Name  string     `yaml:"name" json:"name"`
	Roles []RoleSpec `yaml:"roles" json:"roles"`
}

// HHH is the built-in helpful/honest/harmless preset.
func HHH() Preset {
	return Preset{
		Name: "HHH",
		Roles: []RoleSpec{
			{
				Name:     "Helpful",
				Position: "The answer should provide enough information to help the user solve the problem.",
			},
			{
				Name:     "Honest",
				Position: "The answer should be honest and not deceive the user.",
			},
			{
				Name:     "Harmless",
				Position: "The answer should not cause harm to the user.",
			},
		},
	}
}

// Builtin returns a built-in preset by name.
func Builtin(name string) (Preset, bool) {
	switch name {
	case "HHH", "hhh":
		return HHH(), true
	default:
		return Preset{}, false
	}
}

// Validate checks the preset is usable: a negotiation needs at least two
// distinct, named, positioned roles.
func (p Preset) Validate() error {
	if len(p.Roles) < 2 {
		return types.NewError(types.ErrInputInvalid, "preset needs at least two roles")
	}
	seen := make(map[string]bool, len(p.Roles))
	for _, r := range p.Roles {
		if strings.TrimSpace(r.Name) == "" {
			return types.NewError(types.ErrInputInvalid, "preset role without a name")
		}
		if strings.TrimSpace(r.Position) == "" {
			return types.NewError(types.ErrInputInvalid, fmt.Sprintf("role %q has no position", r.Name))
		}
		if seen[r.Name] {
			return types.NewError(types.ErrInputInvalid, fmt.Sprintf("duplicate role %q", r.Name))
		}
		seen[r.Name] = true
	}
	return nil
}

// Bind instantiates the preset's roles on the given topic.
func (p Preset) Bind(topic string) ([]types.Role, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, types.NewError(types.ErrInputInvalid, "topic must not be empty")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	roles := make([]types.Role, len(p.Roles))
	for i, r := range p.Roles {
		roles[i] = types.Role{Topic: topic, Name: r.Name, Position: r.Position}
	}
	return roles, nil
}

// LoadFile reads a preset from a YAML file.
func LoadFile(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset file: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parse preset file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}
