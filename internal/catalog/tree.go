package catalog

import (
	"github.com/openra/ra-launcher/internal/model"
)

// Fixed node ids and labels of the sidebar
const (
	ModsNodeID        = "ModsNode"
	OtherNodeID       = "OtherNode"
	UnspecifiedNodeID = "UnspecifiedNode"
	MissingNodeID     = "MissingNode"

	ModsLabel        = "Mods"
	OtherLabel       = "Other"
	UnspecifiedLabel = "<Unspecified Dependency>"
	MissingLabel     = "<Missing Dependency>"

	modNodePrefix = "mod:"
)

// ModNodeID returns the sidebar node id of a mod. Mod nodes are namespaced so
// a mod id never collides with a group id.
func ModNodeID(modID string) string {
	return modNodePrefix + modID
}

// Node is one sidebar entry. Group nodes have an empty ModID.
type Node struct {
	ID       string
	Label    string
	ModID    string
	Category model.ModCategory
	Children []*Node
}

// IsGroup reports whether the node is a grouping rather than a mod
func (n *Node) IsGroup() bool {
	return n.ModID == ""
}

// Tree is the two-group sidebar listing
type Tree struct {
	Mods  *Node
	Other *Node

	index map[string]*Node
}

// BuildTree arranges the catalog: standalone mods are roots of Mods with their
// dependents nested below; mods whose requirement is empty or unresolvable go
// to Other. Every mod lands in exactly one group.
func BuildTree(c *Catalog) Tree {
	t := Tree{
		Mods:  &Node{ID: ModsNodeID, Label: ModsLabel},
		Other: &Node{ID: OtherNodeID, Label: OtherLabel},
		index: make(map[string]*Node),
	}
	unspecified := &Node{ID: UnspecifiedNodeID, Label: UnspecifiedLabel}
	missing := &Node{ID: MissingNodeID, Label: MissingLabel}
	t.Other.Children = []*Node{unspecified, missing}
	for _, n := range []*Node{t.Mods, t.Other, unspecified, missing} {
		t.index[n.ID] = n
	}

	ids := c.IDs()
	placed := make(map[string]*Node)
	for _, id := range ids {
		m, _ := c.Get(id)
		if m.Standalone {
			n := newModNode(m, model.CategoryMod)
			placed[id] = n
			t.Mods.Children = append(t.Mods.Children, n)
		}
	}

	// Attach dependents breadth-first until no more progress is possible.
	for progress := true; progress; {
		progress = false
		for _, id := range ids {
			if placed[id] != nil {
				continue
			}
			m, _ := c.Get(id)
			parent := placed[m.Requires]
			if m.Requires == "" || parent == nil {
				continue
			}
			n := newModNode(m, model.CategoryMod)
			parent.Children = append(parent.Children, n)
			placed[id] = n
			progress = true
		}
	}

	for _, id := range ids {
		if placed[id] != nil {
			continue
		}
		m, _ := c.Get(id)
		n := newModNode(m, model.CategoryOther)
		if m.Requires == "" {
			unspecified.Children = append(unspecified.Children, n)
		} else {
			missing.Children = append(missing.Children, n)
		}
		placed[id] = n
	}

	for _, n := range placed {
		t.index[n.ID] = n
	}
	return t
}

func newModNode(m model.Mod, category model.ModCategory) *Node {
	return &Node{ID: ModNodeID(m.ID), Label: m.DisplayName(), ModID: m.ID, Category: category}
}

// Node returns the node with id
func (t Tree) Node(id string) (*Node, bool) {
	n, ok := t.index[id]
	return n, ok
}

// ModNode returns the node listing modID
func (t Tree) ModNode(modID string) (*Node, bool) {
	return t.Node(ModNodeID(modID))
}

// ChildIDs returns the child ids of id, or the two group ids for the empty id
func (t Tree) ChildIDs(id string) []string {
	if id == "" {
		return []string{ModsNodeID, OtherNodeID}
	}
	n, ok := t.index[id]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}

// IsBranch reports whether id has, or may have, children
func (t Tree) IsBranch(id string) bool {
	if id == "" {
		return true
	}
	n, ok := t.index[id]
	return ok && (n.IsGroup() || len(n.Children) > 0)
}

// Descriptors flattens the tree into mod descriptors, Mods group first
func (t Tree) Descriptors() []model.ModDescriptor {
	var out []model.ModDescriptor
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if !n.IsGroup() {
			out = append(out, model.ModDescriptor{ID: n.ModID, DisplayName: n.Label, Category: n.Category})
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Mods)
	walk(t.Other)
	return out
}
