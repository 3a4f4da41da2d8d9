package geoquery

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// CategoryTag maps a business category to an exact OSM key/value pair.
type CategoryTag struct {
	Category string `yaml:"category"`
	Key      string `yaml:"key"`
	Value    string `yaml:"value"`
}

// categoryTags is the builtin category table, ordered. Candidate lists for
// recommendations take categories from the front, so the ordering is part of
// the behavior, not presentation.
var categoryTags = []CategoryTag{
	{"Restaurant", "amenity", "restaurant"},
	{"Cafe", "amenity", "cafe"},
	{"Bakery", "shop", "bakery"},
	{"Supermarket", "shop", "supermarket"},
	{"Convenience Store", "shop", "convenience"},
	{"Pharmacy", "amenity", "pharmacy"},
	{"Hospital", "amenity", "hospital"},
	{"Clinic", "amenity", "clinic"},
	{"Dentist", "amenity", "dentist"},
	{"Veterinary", "amenity", "veterinary"},
	{"Gym", "leisure", "fitness_centre"},
	{"Bar", "amenity", "bar"},
	{"Nightclub", "amenity", "nightclub"},
	{"Cinema", "amenity", "cinema"},
	{"Theater", "amenity", "theatre"},
	{"Bookstore", "shop", "books"},
	{"Electronics Store", "shop", "electronics"},
	{"Hardware Store", "shop", "hardware"},
	{"Furniture Store", "shop", "furniture"},
	{"Clothing Store", "shop", "clothes"},
	{"Shoe Store", "shop", "shoes"},
	{"Jewelry Store", "shop", "jewelry"},
	{"Florist", "shop", "florist"},
	{"Pet Store", "shop", "pet"},
	{"Toy Store", "shop", "toys"},
	{"Bank", "amenity", "bank"},
	{"ATM", "amenity", "atm"},
	{"Real Estate Office", "office", "real_estate_agent"},
	{"Coworking Space", "office", "coworking"},
	{"Office Building", "building", "office"},
	{"Mall", "shop", "mall"},
	{"Market", "amenity", "marketplace"},
	{"Gas Station", "amenity", "fuel"},
	{"Car Wash", "amenity", "car_wash"},
	{"Car Repair", "shop", "car_repair"},
	{"Hotel", "tourism", "hotel"},
	{"Hostel", "tourism", "hostel"},
	{"School", "amenity", "school"},
	{"University", "amenity", "university"},
	{"Post Office", "amenity", "post_office"},
}

// Table resolves business categories to OSM tag filters, with an optional
// user-supplied override layer on top of the builtin table.
type Table struct {
	ordered []CategoryTag
	byName  map[string]CategoryTag
}

// NewTable creates a table holding the builtin category mappings.
func NewTable() *Table {
	t := &Table{
		ordered: make([]CategoryTag, len(categoryTags)),
		byName:  make(map[string]CategoryTag, len(categoryTags)),
	}
	copy(t.ordered, categoryTags)
	for _, tag := range t.ordered {
		t.byName[tag.Category] = tag
	}
	return t
}

// LoadOverrides merges category mappings from a YAML file. New categories
// are appended in file order; existing ones are replaced in place.
func (t *Table) LoadOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "geoquery: read category file %s", path)
	}
	var overrides []CategoryTag
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return eris.Wrapf(err, "geoquery: parse category file %s", path)
	}
	for _, o := range overrides {
		if o.Category == "" || o.Key == "" || o.Value == "" {
			return eris.Errorf("geoquery: incomplete category mapping %q in %s", o.Category, path)
		}
		if _, exists := t.byName[o.Category]; exists {
			for i := range t.ordered {
				if t.ordered[i].Category == o.Category {
					t.ordered[i] = o
					break
				}
			}
		} else {
			t.ordered = append(t.ordered, o)
		}
		t.byName[o.Category] = o
	}
	return nil
}

// Lookup returns the exact tag mapping for a category, if one exists.
func (t *Table) Lookup(category string) (CategoryTag, bool) {
	tag, ok := t.byName[category]
	return tag, ok
}

// Categories returns the category names in table order.
func (t *Table) Categories() []string {
	names := make([]string, len(t.ordered))
	for i, tag := range t.ordered {
		names[i] = tag.Category
	}
	return names
}
