package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

// Directory is a read-only household member directory.
type Directory struct {
	members []models.HouseholdMember
}

// NewDirectory creates a Directory from members.
func NewDirectory(members []models.HouseholdMember) *Directory {
	return &Directory{members: members}
}

type directoryFile struct {
	Members []models.HouseholdMember `yaml:"members"`
}

// LoadDirectory reads household members from a YAML file:
//
//	members:
//	  - id: u1
//	    household: h1
//	    aliases: ["Γιώργος Παπαδόπουλος", "GEORGIOS PAPADOPOULOS"]
//
// A missing file yields an empty directory.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDirectory(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading household directory: %w", err)
	}
	var f directoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing household directory: %w", err)
	}
	return NewDirectory(f.Members), nil
}

// Members returns the members of one household.
func (d *Directory) Members(householdID string) []models.HouseholdMember {
	var out []models.HouseholdMember
	for _, m := range d.members {
		if m.HouseholdID == householdID {
			out = append(out, m)
		}
	}
	return out
}

// Households returns the distinct household ids, sorted.
func (d *Directory) Households() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range d.members {
		if !seen[m.HouseholdID] {
			seen[m.HouseholdID] = true
			out = append(out, m.HouseholdID)
		}
	}
	sort.Strings(out)
	return out
}
