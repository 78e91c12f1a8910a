package catalog

import (
	"fmt"
	"strings"

	"catalog/navigator/internal/domain"
)

// Tree is an arena of categories addressed by id. It is read-only after NewTree.
type Tree struct {
	nodes map[string]*domain.Category
	roots []string
}

// NewTree builds the tree from a flat list. Children are ordered as they appear in the list.
func NewTree(categories []domain.Category) (*Tree, error) {
	t := &Tree{
		nodes: make(map[string]*domain.Category, len(categories)),
		roots: make([]string, 0),
	}

	for _, c := range categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: empty id for category %q", domain.ErrInvalidCategory, c.Name)
		}
		if strings.Contains(id, "/") {
			return nil, fmt.Errorf("%w: id %q contains a path separator", domain.ErrInvalidCategory, id)
		}
		if _, exists := t.nodes[id]; exists {
			return nil, fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidCategory, id)
		}
		name := strings.TrimSpace(c.Name)
		if name == "" || strings.Contains(name, "/") {
			return nil, fmt.Errorf("%w: category %s has name %q that cannot be a path segment", domain.ErrInvalidCategory, id, c.Name)
		}
		t.nodes[id] = &domain.Category{
			ID:       id,
			Name:     c.Name,
			ParentID: strings.TrimSpace(c.ParentID),
			ChildIDs: make([]string, 0),
		}
	}

	for _, c := range categories {
		node := t.nodes[strings.TrimSpace(c.ID)]
		if node.IsRoot() {
			t.roots = append(t.roots, node.ID)
			continue
		}
		parent, ok := t.nodes[node.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: category %s has unknown parent %s", domain.ErrInvalidCategory, node.ID, node.ParentID)
		}
		parent.ChildIDs = append(parent.ChildIDs, node.ID)
	}

	for id := range t.nodes {
		if err := t.checkAcyclic(id); err != nil {
			return nil, err
		}
	}

	// Every category must stay reachable through its name path
	if err := t.checkSiblingNames(t.roots); err != nil {
		return nil, err
	}
	for _, node := range t.nodes {
		if err := t.checkSiblingNames(node.ChildIDs); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Tree) checkAcyclic(id string) error {
	current := t.nodes[id]
	for steps := 0; !current.IsRoot(); steps++ {
		if steps > len(t.nodes) {
			return fmt.Errorf("%w: cycle through category %s", domain.ErrInvalidCategory, id)
		}
		current = t.nodes[current.ParentID]
	}
	return nil
}

func (t *Tree) checkSiblingNames(ids []string) error {
	seen := make(map[string]string, len(ids))
	for _, id := range ids {
		key := strings.ToLower(strings.TrimSpace(t.nodes[id].Name))
		if other, exists := seen[key]; exists {
			return fmt.Errorf("%w: sibling categories %s and %s share the name %q", domain.ErrInvalidCategory, other, id, t.nodes[id].Name)
		}
		seen[key] = id
	}
	return nil
}

// Len returns the number of categories
func (t *Tree) Len() int {
	return len(t.nodes)
}

// CategoryByID returns a copy of the category with the given id
func (t *Tree) CategoryByID(id string) (*domain.Category, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return clone(node), nil
}

// CategoryByPath resolves a slash-delimited path such as "Products/Shoes/Running".
// The first segment matches a root, each following segment one of the current node's
// children, by name (case-insensitive) or by id.
func (t *Tree) CategoryByPath(path string) (*domain.Category, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	candidates := t.roots
	var current *domain.Category
	for _, segment := range segments {
		next := t.match(candidates, segment)
		if next == nil {
			return nil, fmt.Errorf("category path %q: segment %q: %w", path, segment, domain.ErrNotFound)
		}
		current = next
		candidates = next.ChildIDs
	}

	return clone(current), nil
}

// match prefers a name match over an id match, so a sibling's id never shadows a name
func (t *Tree) match(ids []string, segment string) *domain.Category {
	for _, id := range ids {
		node := t.nodes[id]
		if strings.EqualFold(strings.TrimSpace(node.Name), segment) {
			return node
		}
	}
	for _, id := range ids {
		if id == segment {
			return t.nodes[id]
		}
	}
	return nil
}

func splitPath(path string) ([]string, error) {
	trimmed := strings.TrimSpace(path)
	trimmed = strings.TrimPrefix(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidPath)
	}

	segments := strings.Split(trimmed, "/")
	for i, segment := range segments {
		segments[i] = strings.TrimSpace(segment)
		if segments[i] == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", domain.ErrInvalidPath, path)
		}
	}
	return segments, nil
}

// Roots returns the top-level categories in insertion order
func (t *Tree) Roots() []domain.Category {
	return t.collect(t.roots)
}

// Children returns the direct children of a category, no recursion
func (t *Tree) Children(id string) ([]domain.Category, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return t.collect(node.ChildIDs), nil
}

// Parent returns nil for a root category
func (t *Tree) Parent(id string) (*domain.Category, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	if node.IsRoot() {
		return nil, nil
	}
	return clone(t.nodes[node.ParentID]), nil
}

// Ancestors returns the chain from the root down to and including the category
func (t *Tree) Ancestors(id string) ([]domain.Category, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}

	chain := make([]domain.Category, 0, 4)
	for {
		chain = append(chain, *clone(node))
		if node.IsRoot() {
			break
		}
		node = t.nodes[node.ParentID]
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// PathOf returns the slash-delimited name path accepted by CategoryByPath
func (t *Tree) PathOf(id string) (string, error) {
	chain, err := t.Ancestors(id)
	if err != nil {
		return "", err
	}
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}
	return strings.Join(names, "/"), nil
}

// Depth is 0 for a root category
func (t *Tree) Depth(id string) (int, error) {
	chain, err := t.Ancestors(id)
	if err != nil {
		return 0, err
	}
	return len(chain) - 1, nil
}

// InSubtree reports whether id is rootID or one of its descendants
func (t *Tree) InSubtree(id, rootID string) bool {
	node, ok := t.nodes[id]
	if !ok {
		return false
	}
	for {
		if node.ID == rootID {
			return true
		}
		if node.IsRoot() {
			return false
		}
		node = t.nodes[node.ParentID]
	}
}

func (t *Tree) collect(ids []string) []domain.Category {
	categories := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		categories = append(categories, *clone(t.nodes[id]))
	}
	return categories
}

func clone(c *domain.Category) *domain.Category {
	return &domain.Category{
		ID:       c.ID,
		Name:     c.Name,
		ParentID: c.ParentID,
		ChildIDs: append(make([]string, 0, len(c.ChildIDs)), c.ChildIDs...),
	}
}
