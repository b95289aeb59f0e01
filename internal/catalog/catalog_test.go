package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

func TestNewAppendsReserved(t *testing.T) {
	c := New([]models.Category{
		{ID: "groceries", Name: "Groceries", Keywords: []string{"supermarket"}},
		{ID: "groceries", Name: "Duplicate"},
		{ID: Uncategorized, Name: "Other"},
	})

	assert.Equal(t, []string{
		"groceries", Uncategorized, OwnAccount, ToHouseholdMember,
		FromHouseholdMember, ToThirdParty, FromThirdParty,
	}, c.IDs())

	got, ok := c.Get("groceries")
	require.True(t, ok)
	assert.Equal(t, "Groceries", got.Name)

	sentinel, ok := c.Get(Uncategorized)
	require.True(t, ok)
	assert.True(t, sentinel.Reserved)
	assert.Equal(t, "Other", sentinel.Name)
}

func TestAssignableExcludesReserved(t *testing.T) {
	c := Default()
	for _, cat := range c.Assignable() {
		assert.False(t, cat.Reserved, cat.ID)
		assert.NotEqual(t, Uncategorized, cat.ID)
	}
	assert.True(t, c.Exists(OwnAccount))
	assert.True(t, c.Exists("groceries"))
	assert.False(t, c.Exists("nope"))
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`categories:
  - id: pets
    name: Pets
    keywords: ["pet shop", "κτηνιατρος"]
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	pets, ok := c.Get("pets")
	require.True(t, ok)
	assert.Equal(t, []string{"pet shop", "κτηνιατρος"}, pets.Keywords)

	out := filepath.Join(dir, "out.yaml")
	require.NoError(t, c.Save(out))
	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, c.IDs(), again.IDs())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("categories: [:"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`members:
  - id: u1
    household: h1
    aliases: ["Γιώργος Παπαδόπουλος"]
  - id: u2
    household: h1
    aliases: ["Maria Papadopoulou", "ΜΑΡΙΑ ΠΑΠΑΔΟΠΟΥΛΟΥ"]
  - id: u3
    household: h2
    aliases: ["Nikos"]
`), 0o644))

	d, err := LoadDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, d.Households())

	members := d.Members("h1")
	require.Len(t, members, 2)
	assert.Equal(t, "u2", members[1].ID)
	assert.Len(t, members[1].NameAliases, 2)
	assert.Empty(t, d.Members("h9"))
}

func TestLoadDirectoryMissingFile(t *testing.T) {
	d, err := LoadDirectory(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, d.Households())
}
