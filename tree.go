package tkb

import (
	"sort"
	"strings"
)

// Node is an entry in the layer tree of a paper.
// The root stands for the paper, its children are one section per class or
// model and the leaves are the layers of that class.
type Node struct {
	ID       string
	Parent   *Node
	Children []*Node
	layer    *Layer
}

func newNode(id string, l *Layer) *Node {
	return &Node{
		ID:       id,
		Children: make([]*Node, 0),
		layer:    l,
	}
}

// Leaf tells if this node is a layer.
func (n *Node) Leaf() bool {
	return n.layer != nil
}

// Root tells if this is the paper node.
func (n *Node) Root() bool {
	return n.Parent == nil
}

// Layer returns the layer for a leaf node.
func (n *Node) Layer() (Layer, bool) {
	if n.layer == nil {
		return Layer{}, false
	}
	return *n.layer, true
}

// Name is the display name: the layer's name, or the class for sections.
func (n *Node) Name() string {
	if n.layer != nil {
		if n.layer.Name != "" {
			return n.layer.Name
		}
		return n.layer.ID
	}
	return n.ID
}

// Class returns the class for sections and layers.
func (n *Node) Class() string {
	if n.layer != nil {
		return n.layer.Class
	}
	if n.Root() {
		return ""
	}
	return n.ID
}

func (n *Node) Training() bool {
	return n.layer != nil && n.layer.IsTraining()
}

// Section returns the child section for the given class.
func (n *Node) Section(class string) *Node {
	for _, c := range n.Children {
		if !c.Leaf() && c.ID == class {
			return c
		}
	}
	return nil
}

// Layers lists the layers in this subtree, in tree order.
func (n *Node) Layers() []Layer {
	layers := make([]Layer, 0)
	n.Walk(func(c *Node) error {
		if l, ok := c.Layer(); ok {
			layers = append(layers, l)
		}
		return nil
	})
	return layers
}

// Walk calls f for this node and all its descendants, depth first.
// Walking stops at the first error.
func (n *Node) Walk(f func(*Node) error) error {
	err := f(n)
	if err != nil {
		return err
	}
	for _, c := range n.Children {
		err = c.Walk(f)
		if err != nil {
			return err
		}
	}
	return nil
}

// Sort sorts the subtree starting at this node by the given sort rule.
// Sorting is in-place.
func (n *Node) Sort(compare func(*Node, *Node) bool) {
	f := func(i, j int) bool {
		one := n.Children[i]
		other := n.Children[j]
		return compare(one, other)
	}
	sort.SliceStable(n.Children, f)

	for _, c := range n.Children {
		c.Sort(compare)
	}
}

// addChild adds a child node to this node and sets the Parent field
// of the child.
func (n *Node) addChild(child *Node) {
	n.Children = append(n.Children, child)
	child.Parent = n
}

// NodeFilter selects layers from the tree.
type NodeFilter func(*Node) bool

// Filtered returns a copy of the tree with only the layers that match all
// filters. Sections are kept even if no layer remains.
func (n *Node) Filtered(filters ...NodeFilter) *Node {
	c := newNode(n.ID, n.layer)
	for _, child := range n.Children {
		if child.Leaf() {
			if matchAll(child, filters) {
				c.addChild(newNode(child.ID, child.layer))
			}
			continue
		}
		c.addChild(child.Filtered(filters...))
	}
	return c
}

func matchAll(n *Node, filters []NodeFilter) bool {
	for _, f := range filters {
		if !f(n) {
			return false
		}
	}
	return true
}

// IsTraining matches layers used as training data.
func IsTraining(n *Node) bool {
	return n.Training()
}

// MatchName matches layers whose name contains s (case-insensitive).
func MatchName(s string) NodeFilter {
	s = strings.ToLower(s)
	return func(n *Node) bool {
		return strings.Contains(strings.ToLower(n.Name()), s)
	}
}

// OfClass matches layers of one class or model.
func OfClass(class string) NodeFilter {
	return func(n *Node) bool {
		return n.Class() == class
	}
}

// HasStatus matches layers in the given state.
func HasStatus(st Status) NodeFilter {
	return func(n *Node) bool {
		l, ok := n.Layer()
		return ok && l.Status == st
	}
}

// BuildTree arranges the layers of a paper by class.
//
// There is one section for each of the given classes (in that order) and
// one for every other class that occurs in layers.
func BuildTree(paperID string, classes []string, layers []Layer) *Node {
	root := newNode(paperID, nil)
	for _, c := range classes {
		if root.Section(c) == nil {
			root.addChild(newNode(c, nil))
		}
	}

	for i := range layers {
		l := layers[i]
		if l.PaperID != "" && l.PaperID != paperID {
			continue
		}
		section := root.Section(l.Class)
		if section == nil {
			section = newNode(l.Class, nil)
			root.addChild(section)
		}
		section.addChild(newNode(l.ID, &l))
	}

	return root
}

// DefaultSort orders sections by class and layers with training layers
// first, newest before older ones and then by name (case-insensitive).
func DefaultSort(one, other *Node) bool {
	// tell if  one <  other
	if !one.Leaf() && !other.Leaf() {
		return one.ID < other.ID
	}

	// training data before the rest
	if one.Training() && !other.Training() {
		return true
	} else if other.Training() && !one.Training() {
		return false
	}

	a, _ := one.Layer()
	b, _ := other.Layer()
	if !a.Created.Equal(b.Created.Time) {
		return a.Created.After(b.Created.Time)
	}

	// special case, equal display names, fall back on ID
	if one.Name() == other.Name() {
		return one.ID < other.ID
	}

	// by name, case-insensitive
	return strings.ToLower(one.Name()) < strings.ToLower(other.Name())
}
