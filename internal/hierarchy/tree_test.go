package hierarchy

import (
	"testing"

	"go-cloud-drive/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func folder(id, name string, parentID *string) models.Folder {
	return models.Folder{ID: id, Name: name, ParentID: parentID, OwnerID: 1}
}

func TestBuildTreeNesting(t *testing.T) {
	a := "a"
	b := "b"
	flat := []models.Folder{
		folder("a", "Projects", nil),
		folder("b", "Archive", &a),
		folder("c", "2024", &b),
		folder("d", "Photos", nil),
	}

	roots := BuildTree(flat)
	require.Len(t, roots, 2)

	// Name-ascending at the root: Photos before Projects.
	assert.Equal(t, "Photos", roots[0].Folder.Name)
	assert.Equal(t, "Projects", roots[1].Folder.Name)

	require.Len(t, roots[1].Children, 1)
	archive := roots[1].Children[0]
	assert.Equal(t, "Archive", archive.Folder.Name)
	require.Len(t, archive.Children, 1)
	assert.Equal(t, "2024", archive.Children[0].Folder.Name)
}

func TestBuildTreeSiblingOrdering(t *testing.T) {
	p := "p"
	flat := []models.Folder{
		folder("p", "Parent", nil),
		folder("x", "charlie", &p),
		folder("y", "alpha", &p),
		folder("z", "bravo", &p),
	}

	roots := BuildTree(flat)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 3)

	var names []string
	for _, child := range roots[0].Children {
		names = append(names, child.Folder.Name)
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, names)
}

func TestBuildTreeOrphanSurfacesAtRoot(t *testing.T) {
	missing := "not-in-list"
	flat := []models.Folder{
		folder("a", "Visible", &missing),
	}

	roots := BuildTree(flat)
	require.Len(t, roots, 1)
	assert.Equal(t, "Visible", roots[0].Folder.Name)
}

func TestBuildTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
	assert.Empty(t, BuildTree([]models.Folder{}))
}
