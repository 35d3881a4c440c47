package scene

import (
	"fmt"
	"strings"
)

// Binding declares a node the controllers need. Optional nodes are
// decorative: when absent they are skipped instead of failing.
type Binding struct {
	Name     string
	Optional bool
}

// Returned by [Resolve] when one or more required nodes are absent.
type MissingNodeError struct {
	Names []string
}

func (self *MissingNodeError) Error() string {
	return fmt.Sprintf("scene: missing required node(s): %s", strings.Join(self.Names, ", "))
}

// Handles maps node names to transform handles. It's resolved once
// at startup and never queried against the host graph again.
type Handles struct {
	nodes   map[string]Node
	missing []string
}

// Resolves all bindings against the given graph. Every absent
// required name is reported in a single [*MissingNodeError].
// Absent optional names are recorded and available through
// [Handles.Missing]().
func Resolve(graph Graph, bindings []Binding) (*Handles, error) {
	handles := &Handles{nodes: make(map[string]Node, len(bindings))}
	var required []string
	for _, binding := range bindings {
		node, found := graph.Lookup(binding.Name)
		if found && node != nil {
			handles.nodes[binding.Name] = node
			continue
		}
		if binding.Optional {
			handles.missing = append(handles.missing, binding.Name)
		} else {
			required = append(required, binding.Name)
		}
	}
	if len(required) > 0 {
		return nil, &MissingNodeError{Names: required}
	}
	return handles, nil
}

// Returns the node bound to the given name, if any.
func (self *Handles) Get(name string) (Node, bool) {
	node, found := self.nodes[name]
	return node, found
}

// Like [Handles.Get](), but panics if the node is not bound.
// Only use it for names declared as required.
func (self *Handles) MustGet(name string) Node {
	node, found := self.nodes[name]
	if !found {
		panic("scene: node '" + name + "' was not resolved")
	}
	return node
}

// Returns the optional names that couldn't be resolved.
func (self *Handles) Missing() []string {
	return self.missing
}
