package scope

import "github.com/dshills/keyscope/internal/hotkey/key"

// node is a trie vertex. Edge labels are step keys, unique among siblings.
// A callback is present only on nodes where a registered pattern ends; such
// a node may still have children when a longer pattern extends it.
type node struct {
	children map[string]*node
	callback func(key.Event)
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// insert walks steps from n creating missing children and attaches fn to
// the terminal node. Inserting an existing path replaces its callback, so
// re-registration updates a binding in place.
func (n *node) insert(steps []string, fn func(key.Event)) {
	cur := n
	for _, step := range steps {
		child, ok := cur.children[step]
		if !ok {
			child = newNode()
			cur.children[step] = child
		}
		cur = child
	}
	cur.callback = fn
}

// remove clears the callback at the end of steps and prunes the trailing
// chain of nodes that no longer serve any binding. A path that does not
// fully exist is a no-op. Pruning walks leaf to root and stops at the first
// node that still has children or a callback, which preserves prefixes
// shared with sibling bindings. It returns the nodes actually deleted so
// the caller can repair a cursor left pointing at one of them.
func (n *node) remove(steps []string) []*node {
	if len(steps) == 0 {
		return nil
	}

	// Track the path for pruning.
	path := make([]*node, 0, len(steps)+1)
	path = append(path, n)

	cur := n
	for _, step := range steps {
		child, ok := cur.children[step]
		if !ok {
			return nil
		}
		path = append(path, child)
		cur = child
	}

	cur.callback = nil

	// Prune empty nodes from leaf to root. path[i] is the child of
	// path[i-1] along edge steps[i-1]; index 0 is the root, never pruned.
	var pruned []*node
	for i := len(path) - 1; i > 0; i-- {
		current := path[i]
		if len(current.children) > 0 || current.callback != nil {
			break
		}
		delete(path[i-1].children, steps[i-1])
		pruned = append(pruned, current)
	}
	return pruned
}

// contains reports whether the exact path exists with a callback attached.
func (n *node) contains(steps []string) bool {
	cur := n
	for _, step := range steps {
		child, ok := cur.children[step]
		if !ok {
			return false
		}
		cur = child
	}
	return cur.callback != nil
}

// size counts the nodes reachable from n, excluding n itself.
func (n *node) size() int {
	total := 0
	for _, child := range n.children {
		total += 1 + child.size()
	}
	return total
}
