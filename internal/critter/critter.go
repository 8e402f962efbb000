// Package critter builds spirits and sprites from templates scaled by Force.
package critter

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"chummerview/internal/rules"
)

//go:embed templates.yaml
var builtinTemplates []byte

const (
	TypeSprite = "Sprite"
	TypeSpirit = "Spirit"
)

var (
	ErrUnknownCritter = errors.New("unknown critter")
	ErrInvalidForce   = errors.New("force must be at least 1")
)

// Modifier is a template attribute: its value is added to Force.
type Modifier struct {
	Name  string
	Value int
}

// Modifiers keeps template attributes in file order.
type Modifiers []Modifier

func (m *Modifiers) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: attributes must be a mapping", node.Line)
	}
	out := make(Modifiers, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v int
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("attribute %s: %w", node.Content[i].Value, err)
		}
		out = append(out, Modifier{Name: node.Content[i].Value, Value: v})
	}
	*m = out
	return nil
}

// Get returns the modifier for name, 0 when the template does not list it.
func (m Modifiers) Get(name string) int {
	for _, mod := range m {
		if mod.Name == name {
			return mod.Value
		}
	}
	return 0
}

type InitiativeSpec struct {
	Type rules.InitiativeType `yaml:"type" json:"type"`
	Dice int                  `yaml:"dice" json:"dice"`
}

type Template struct {
	Name           string         `yaml:"name"`
	Type           string         `yaml:"type"`
	Attributes     Modifiers      `yaml:"attributes"`
	Initiative     InitiativeSpec `yaml:"initiative"`
	Skills         []string       `yaml:"skills"`
	Powers         []string       `yaml:"powers"`
	OptionalPowers []string       `yaml:"optionalPowers"`
	Special        string         `yaml:"special"`
	Notes          string         `yaml:"notes"`
}

// Rating is a named value of a generated critter.
type Rating struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Critter struct {
	Name           string               `json:"name"`
	Type           string               `json:"type"`
	Force          int                  `json:"force"`
	Attributes     []Rating             `json:"attributes"`
	InitiativeType rules.InitiativeType `json:"initiativeType"`
	Initiative     rules.Initiative     `json:"initiative"`
	Skills         []Rating             `json:"skills"`
	Powers         []string             `json:"powers"`
	OptionalPowers []string             `json:"optionalPowers"`
	Special        string               `json:"special"`
	Notes          string               `json:"notes"`
}

// Attribute returns the value of a generated attribute.
func (c *Critter) Attribute(name string) (int, bool) {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return 0, false
}

// Skill returns the rating of a generated skill.
func (c *Critter) Skill(name string) (int, bool) {
	for _, s := range c.Skills {
		if s.Name == name {
			return s.Value, true
		}
	}
	return 0, false
}

// spriteAttributes are the Matrix attributes of a sprite and the attribute
// each stands in for when rating skills.
var spriteAttributes = []struct{ name, as string }{
	{"ATT", "CHA"},
	{"SLZ", "INT"},
	{"DP", "LOG"},
	{"FWL", "WIL"},
}

// Generate scales t to force.
func (t Template) Generate(force int) (*Critter, error) {
	if force < 1 {
		return nil, fmt.Errorf("%s: %w", t.Name, ErrInvalidForce)
	}

	c := &Critter{
		Name:           t.Name,
		Type:           t.Type,
		Force:          force,
		Attributes:     []Rating{},
		InitiativeType: t.Initiative.Type,
		Skills:         []Rating{},
		Powers:         append([]string{}, t.Powers...),
		OptionalPowers: append([]string{}, t.OptionalPowers...),
		Special:        t.Special,
		Notes:          t.Notes,
	}

	// values holds every attribute a skill may be rated against.
	values := rules.Attributes{}
	if t.Type == TypeSprite {
		for _, attr := range []string{"BOD", "AGI", "REA", "STR"} {
			values[attr] = force
		}
		for _, sa := range spriteAttributes {
			v := force + t.Attributes.Get(sa.name)
			c.Attributes = append(c.Attributes, Rating{Name: sa.name, Value: v})
			values[sa.name] = v
			values[sa.as] = v
		}
	} else {
		for _, mod := range t.Attributes {
			v := force + mod.Value
			c.Attributes = append(c.Attributes, Rating{Name: mod.Name, Value: v})
			values[mod.Name] = v
		}
	}

	c.Initiative = t.initiative(force)

	for _, skill := range t.Skills {
		rating := force
		if attr, ok := rules.SkillAttribute(skill); ok {
			if v, ok := values[attr]; ok {
				rating += v
			}
		}
		c.Skills = append(c.Skills, Rating{Name: skill, Value: rating})
	}
	return c, nil
}

func (t Template) initiative(force int) rules.Initiative {
	kind, dice := t.Initiative.Type, t.Initiative.Dice
	switch {
	case t.Type == TypeSpirit && kind == rules.PhysicalInitiative:
		return rules.CritterInitiative(kind, force, t.Attributes.Get("REA"), dice)
	case t.Type == TypeSpirit && kind == rules.AstralInitiative:
		return rules.CritterInitiative(kind, force, 0, dice)
	case t.Type == TypeSprite && kind == rules.MatrixInitiative:
		return rules.CritterInitiative(kind, force, t.Attributes.Get("DP"), dice)
	}
	return rules.Initiative{Dice: dice}
}

// ParseTemplates reads a YAML list of templates.
func ParseTemplates(data []byte) ([]Template, error) {
	var templates []Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing critter templates: %w", err)
	}

	seen := map[string]bool{}
	for i, t := range templates {
		if t.Name == "" {
			return nil, fmt.Errorf("template %d: name is required", i)
		}
		if t.Type != TypeSprite && t.Type != TypeSpirit {
			return nil, fmt.Errorf("template %q: type must be %s or %s", t.Name, TypeSprite, TypeSpirit)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("template %q: duplicate name", t.Name)
		}
		seen[t.Name] = true
	}
	return templates, nil
}

// Catalog is an ordered set of templates addressed by name.
type Catalog struct {
	templates []Template
}

// LoadCatalog returns the built-in templates extended by the given YAML
// files. A file template with a built-in name replaces it in place; new
// names are added at the end.
func LoadCatalog(paths ...string) (*Catalog, error) {
	templates, err := ParseTemplates(builtinTemplates)
	if err != nil {
		return nil, err
	}
	c := &Catalog{templates: templates}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading critter templates: %w", err)
		}
		extra, err := ParseTemplates(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, t := range extra {
			c.add(t)
		}
	}
	return c, nil
}

func (c *Catalog) add(t Template) {
	for i := range c.templates {
		if c.templates[i].Name == t.Name {
			c.templates[i] = t
			return
		}
	}
	c.templates = append(c.templates, t)
}

// Templates returns the catalog in order.
func (c *Catalog) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

func (c *Catalog) Lookup(name string) (Template, bool) {
	for _, t := range c.templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

func (c *Catalog) Generate(name string, force int) (*Critter, error) {
	t, ok := c.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCritter, name)
	}
	return t.Generate(force)
}

var builtinCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog()
})

// Generate scales a built-in template.
func Generate(name string, force int) (*Critter, error) {
	c, err := builtinCatalog()
	if err != nil {
		return nil, err
	}
	return c.Generate(name, force)
}
