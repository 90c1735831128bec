package hierarchy

import (
	"sort"

	"go-cloud-drive/internal/models"
)

// TreeNode is one folder with its nested children.
type TreeNode struct {
	Folder   *models.Folder `json:"folder"`
	Children []*TreeNode    `json:"children,omitempty"`
}

// BuildTree turns a flat folder list into a nested tree keyed by parent id.
// The full set is loaded once and partitioned in memory, so no recursive
// queries happen at read time. Roots are folders with a nil parent; a folder
// whose parent is absent from the list (for example, still in the trash) is
// also surfaced at the root rather than dropped. Siblings are ordered by name
// ascending at every level.
func BuildTree(folders []models.Folder) []*TreeNode {
	nodes := make(map[string]*TreeNode, len(folders))
	for i := range folders {
		nodes[folders[i].ID] = &TreeNode{Folder: &folders[i]}
	}

	var roots []*TreeNode
	for i := range folders {
		node := nodes[folders[i].ID]
		if parentID := folders[i].ParentID; parentID != nil {
			if parent, ok := nodes[*parentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortTree(roots)
	return roots
}

func sortTree(nodes []*TreeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Folder.Name < nodes[j].Folder.Name
	})
	for _, node := range nodes {
		sortTree(node.Children)
	}
}
