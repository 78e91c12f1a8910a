package domain

// Category is a node of the catalog category tree.
// Parent and children are referenced by id, the tree owns the nodes.
type Category struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ParentID string   `json:"parent_id,omitempty"` // Empty for a root category
	ChildIDs []string `json:"child_ids,omitempty"` // Direct children in insertion order
}

// IsRoot reports whether the category has no parent
func (c Category) IsRoot() bool {
	return c.ParentID == ""
}
