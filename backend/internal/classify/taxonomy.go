package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"recall/backend/internal/concept"
	apperrors "recall/backend/pkg/errors"
)

// Category is one top-level taxonomy entry
type Category struct {
	Name          string   `yaml:"name" json:"name"`
	Keywords      []string `yaml:"keywords" json:"keywords"`
	Subcategories []string `yaml:"subcategories" json:"subcategories"`
}

// Alias maps a substring of an external label onto a taxonomy label.
// Aliases are tried in declaration order; the first hit wins.
type Alias struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Target  string `yaml:"target" json:"target"`
}

// Taxonomy is the category configuration used by the classifier
type Taxonomy struct {
	Default    string     `yaml:"default" json:"default"`
	Categories []Category `yaml:"categories" json:"categories"`
	Aliases    []Alias    `yaml:"aliases" json:"aliases"`

	labels []string
	folded map[string]string
}

// LoadTaxonomy reads a YAML taxonomy file
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewTaxonomyInvalid(path, "cannot read file", err)
	}

	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, apperrors.NewTaxonomyInvalid(path, "cannot parse yaml", err)
	}
	if err := t.Validate(); err != nil {
		return nil, apperrors.NewTaxonomyInvalid(path, err.Error(), nil)
	}
	return &t, nil
}

// Validate checks names are unique and that the default and every alias
// target are labels of the taxonomy. It also builds the label lookup.
func (t *Taxonomy) Validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("no categories defined")
	}

	t.labels = t.labels[:0]
	t.folded = make(map[string]string)
	for _, cat := range t.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return fmt.Errorf("category with empty name")
		}
		if strings.Contains(name, concept.CategorySeparator) {
			return fmt.Errorf("category %q must not contain %q", name, concept.CategorySeparator)
		}
		if err := t.addLabel(name); err != nil {
			return err
		}
		for _, sub := range cat.Subcategories {
			if strings.TrimSpace(sub) == "" {
				return fmt.Errorf("category %q has an empty subcategory", name)
			}
			if err := t.addLabel(concept.JoinCategory(name, strings.TrimSpace(sub))); err != nil {
				return err
			}
		}
	}

	if t.Default == "" {
		return fmt.Errorf("default category is required")
	}
	if _, ok := t.Lookup(t.Default); !ok {
		return fmt.Errorf("default category %q is not in the taxonomy", t.Default)
	}
	for _, alias := range t.Aliases {
		if strings.TrimSpace(alias.Keyword) == "" {
			return fmt.Errorf("alias with empty keyword")
		}
		if _, ok := t.Lookup(alias.Target); !ok {
			return fmt.Errorf("alias %q targets unknown category %q", alias.Keyword, alias.Target)
		}
	}
	return nil
}

func (t *Taxonomy) addLabel(label string) error {
	key := strings.ToLower(label)
	if _, dup := t.folded[key]; dup {
		return fmt.Errorf("duplicate category %q", label)
	}
	t.folded[key] = label
	t.labels = append(t.labels, label)
	return nil
}

// Labels returns every valid label ("Main" and "Main > Sub") in declaration order
func (t *Taxonomy) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Lookup returns the canonical spelling of a label, matched case-insensitively
func (t *Taxonomy) Lookup(label string) (string, bool) {
	canonical, ok := t.folded[strings.ToLower(strings.TrimSpace(label))]
	return canonical, ok
}
