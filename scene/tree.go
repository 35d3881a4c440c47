package scene

import ebimath "github.com/edwinsyarief/ebi-math"

// Tree is a minimal retained scene graph. Transforms are composed
// parent-relative on the horizontal XZ plane, which is all a top-down
// view of the solar system needs.
//
// Not safe for concurrent use; like the host runtimes it stands in
// for, it's meant to be touched from a single update thread.
type Tree struct {
	nodes map[string]*TreeNode
	order []*TreeNode
}

// A node in a [Tree]. Implements [Node].
type TreeNode struct {
	name      string
	parent    *TreeNode
	children  []*TreeNode
	position  Vec3
	rotationY float64
	scale     Vec3
	visible   bool
}

// Creates an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]*TreeNode)}
}

// Adds a new node under the given parent. An empty parent name
// attaches the node to the root. Panics on duplicated names or
// unknown parents.
func (self *Tree) Add(name, parent string) *TreeNode {
	if _, exists := self.nodes[name]; exists {
		panic("scene: duplicated node name '" + name + "'")
	}
	node := &TreeNode{name: name, scale: Uniform(1), visible: true}
	if parent != "" {
		parentNode, found := self.nodes[parent]
		if !found {
			panic("scene: unknown parent '" + parent + "' for node '" + name + "'")
		}
		node.parent = parentNode
		parentNode.children = append(parentNode.children, node)
	}
	self.nodes[name] = node
	self.order = append(self.order, node)
	return node
}

// Removes a node and its whole subtree.
func (self *Tree) Remove(name string) {
	node, found := self.nodes[name]
	if !found {
		return
	}
	if node.parent != nil {
		siblings := node.parent.children
		for i := range siblings {
			if siblings[i] == node {
				node.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	self.detach(node)
}

func (self *Tree) detach(node *TreeNode) {
	for _, child := range node.children {
		self.detach(child)
	}
	delete(self.nodes, node.name)
	for i := range self.order {
		if self.order[i] == node {
			self.order = append(self.order[:i], self.order[i+1:]...)
			break
		}
	}
}

// Implements [Graph].
func (self *Tree) Lookup(name string) (Node, bool) {
	node, found := self.nodes[name]
	if !found {
		return nil, false
	}
	return node, true
}

// Returns the concrete tree node, if present.
func (self *Tree) Node(name string) (*TreeNode, bool) {
	node, found := self.nodes[name]
	return node, found
}

// Calls fn for every node in insertion order. Parents are always
// visited before their children.
func (self *Tree) Walk(fn func(node *TreeNode)) {
	for _, node := range self.order {
		fn(node)
	}
}

// --- TreeNode ---

func (self *TreeNode) Name() string           { return self.name }
func (self *TreeNode) Parent() *TreeNode      { return self.parent }
func (self *TreeNode) Position() Vec3         { return self.position }
func (self *TreeNode) SetPosition(p Vec3)     { self.position = p }
func (self *TreeNode) RotationY() float64     { return self.rotationY }
func (self *TreeNode) SetRotationY(r float64) { self.rotationY = r }
func (self *TreeNode) Scale() Vec3            { return self.scale }
func (self *TreeNode) SetScale(s Vec3)        { self.scale = s }
func (self *TreeNode) Visible() bool          { return self.visible }
func (self *TreeNode) SetVisible(v bool)      { self.visible = v }

// Returns the node position projected on the XZ plane after
// composing all parent transforms, along with the accumulated
// rotation and uniform scale (X axis of the scale vectors).
func (self *TreeNode) World() (position ebimath.Vector, rotation, scale float64) {
	local := ebimath.V(self.position.X, self.position.Z)
	if self.parent == nil {
		return local, self.rotationY, self.scale.X
	}
	parentPos, parentRot, parentScale := self.parent.World()
	offset := ebimath.V(parentPos.X+local.X*parentScale, parentPos.Y+local.Y*parentScale)
	position = offset.RotateAround(parentPos, parentRot)
	return position, parentRot + self.rotationY, parentScale * self.scale.X
}

// Returns whether this node and all its ancestors are visible.
func (self *TreeNode) WorldVisible() bool {
	for node := self; node != nil; node = node.parent {
		if !node.visible {
			return false
		}
	}
	return true
}
