package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

// Reserved category identifiers.
const (
	Uncategorized       = "uncategorized"
	OwnAccount          = "transfer/own-account"
	ToHouseholdMember   = "transfer/to-household-member"
	FromHouseholdMember = "transfer/from-household-member"
	ToThirdParty        = "transfer/to-third-party"
	FromThirdParty      = "transfer/from-third-party"
)

var reserved = []models.Category{
	{ID: OwnAccount, Name: "Own-account transfer", Reserved: true},
	{ID: ToHouseholdMember, Name: "Transfer to household member", Reserved: true},
	{ID: FromHouseholdMember, Name: "Transfer from household member", Reserved: true},
	{ID: ToThirdParty, Name: "Transfer to third party", Reserved: true},
	{ID: FromThirdParty, Name: "Transfer from third party", Reserved: true},
	{ID: Uncategorized, Name: "Uncategorized", Reserved: true},
}

// Catalog provides ordered, in-memory lookup over categories.
// Declaration order is significant: it breaks matching ties.
type Catalog struct {
	categories []models.Category
	byID       map[string]models.Category
}

// New creates a Catalog from categories, appending any reserved entries
// that are missing. Later duplicates of an id are ignored.
func New(categories []models.Category) *Catalog {
	c := &Catalog{byID: make(map[string]models.Category, len(categories)+len(reserved))}
	for _, cat := range categories {
		c.add(cat)
	}
	for _, cat := range reserved {
		if existing, ok := c.byID[cat.ID]; ok {
			if !existing.Reserved {
				existing.Reserved = true
				c.replace(existing)
			}
			continue
		}
		c.add(cat)
	}
	return c
}

func (c *Catalog) add(cat models.Category) {
	if _, dup := c.byID[cat.ID]; dup || cat.ID == "" {
		return
	}
	c.categories = append(c.categories, cat)
	c.byID[cat.ID] = cat
}

func (c *Catalog) replace(cat models.Category) {
	for i := range c.categories {
		if c.categories[i].ID == cat.ID {
			c.categories[i] = cat
		}
	}
	c.byID[cat.ID] = cat
}

type catalogFile struct {
	Categories []models.Category `yaml:"categories"`
}

// Load reads a YAML category catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading category catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing category catalog: %w", err)
	}
	return New(f.Categories), nil
}

// Save writes the catalog as YAML.
func (c *Catalog) Save(path string) error {
	data, err := yaml.Marshal(catalogFile{Categories: c.categories})
	if err != nil {
		return fmt.Errorf("marshaling category catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing category catalog: %w", err)
	}
	return nil
}

// All returns every category in declaration order.
func (c *Catalog) All() []models.Category {
	return c.categories
}

// Assignable returns the categories text matching may produce: everything
// except the reserved transfer ids and the sentinel.
func (c *Catalog) Assignable() []models.Category {
	var out []models.Category
	for _, cat := range c.categories {
		if !cat.Reserved {
			out = append(out, cat)
		}
	}
	return out
}

// Get returns a category by id.
func (c *Catalog) Get(id string) (models.Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// Exists reports whether a category id exists.
func (c *Catalog) Exists(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns all category ids in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		ids = append(ids, cat.ID)
	}
	return ids
}
