// Package taxonomy holds the static two-level service taxonomy the dialogue
// narrows a caller down to: ordered categories, each with an ordered list of
// subcategories. The taxonomy is immutable for the lifetime of a session and
// is consumed only to build the generation prompt.
package taxonomy

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Subcategory is a single selectable service.
type Subcategory struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// Category groups subcategories under one service area.
type Category struct {
	Name          string        `mapstructure:"name"`
	Active        bool          `mapstructure:"active"`
	Description   string        `mapstructure:"description"`
	Subcategories []Subcategory `mapstructure:"subcategories"`
}

// Taxonomy is the ordered set of categories offered to the caller.
type Taxonomy struct {
	Categories []Category
}

// Describe renders the taxonomy into the text form embedded in the
// generation prompt, one category per line.
func (t Taxonomy) Describe() string {
	lines := make([]string, 0, len(t.Categories))
	for _, category := range t.Categories {
		subcategories := make([]string, 0, len(category.Subcategories))
		for _, subcategory := range category.Subcategories {
			subcategories = append(subcategories, fmt.Sprintf("%s - %s", subcategory.Name, subcategory.Description))
		}

		active := "No"
		if category.Active {
			active = "Yes"
		}
		lines = append(lines, fmt.Sprintf("%s (Active: %s): %s. Subcategories: %s",
			category.Name, active, category.Description, strings.Join(subcategories, ", ")))
	}

	return strings.Join(lines, "\n")
}

// Lookup returns the category and subcategory matching the given names, or
// false when either is unknown. Matching is case-insensitive.
func (t Taxonomy) Lookup(category, subcategory string) (*Category, *Subcategory, bool) {
	for i := range t.Categories {
		if !strings.EqualFold(t.Categories[i].Name, category) {
			continue
		}
		for j := range t.Categories[i].Subcategories {
			if strings.EqualFold(t.Categories[i].Subcategories[j].Name, subcategory) {
				return &t.Categories[i], &t.Categories[i].Subcategories[j], true
			}
		}
		return &t.Categories[i], nil, false
	}
	return nil, nil, false
}

// Decode builds a taxonomy from a free-form configuration document, one map
// per category in order.
func Decode(documents []map[string]any) (Taxonomy, error) {
	taxonomy := Taxonomy{}
	for i, document := range documents {
		var category Category
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &category,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return Taxonomy{}, fmt.Errorf("failed to build taxonomy decoder: %w", err)
		}
		if err := decoder.Decode(document); err != nil {
			return Taxonomy{}, fmt.Errorf("failed to decode category %d: %w", i, err)
		}
		if strings.TrimSpace(category.Name) == "" {
			return Taxonomy{}, fmt.Errorf("category %d has no name", i)
		}
		taxonomy.Categories = append(taxonomy.Categories, category)
	}

	return taxonomy, nil
}
