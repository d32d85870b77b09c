// Package tree builds a sorted directory/file tree from a flat list of
// slash-separated paths and renders it for non-interactive output.
package tree

import (
	"sort"
	"strings"
)

// Node type markers, also used as the "type" field in JSON output.
const (
	NodeTypeFile = "file"
	NodeTypeDir  = "dir"
)

// Node is one entry in the finished tree. Path is the slash-join of all
// ancestor names including the node's own; the root node carries empty Name
// and Path. Children are sorted directories first, then alphabetically.
type Node struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Type     string  `json:"type"`
	Children []*Node `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Type == NodeTypeDir
}

// builderNode accumulates children keyed by name while paths are inserted.
// Sorted Node slices are materialized once, in finalize.
type builderNode struct {
	kind     string
	children map[string]*builderNode
}

// Build constructs the tree for the given paths. Empty entries and empty
// segments are skipped, duplicate paths are tolerated, and the input order
// does not matter. The returned root is never nil.
func Build(paths []string) *Node {
	root := &builderNode{kind: NodeTypeDir}
	for _, path := range paths {
		if path == "" {
			continue
		}
		root.insert(path)
	}
	return root.finalize("", "")
}

func (b *builderNode) insert(path string) {
	segments := strings.Split(path, "/")
	current := b
	for index, segment := range segments {
		if segment == "" {
			continue
		}
		kind := NodeTypeDir
		if index == len(segments)-1 && hasExtension(segment) {
			kind = NodeTypeFile
		}
		child, exists := current.children[segment]
		if !exists {
			child = &builderNode{kind: kind}
			if current.children == nil {
				current.children = make(map[string]*builderNode)
			}
			current.children[segment] = child
		}
		// An existing node keeps its original kind; re-inserting a path or
		// extending through a file name never reclassifies it.
		current = child
	}
}

func (b *builderNode) finalize(name, path string) *Node {
	node := &Node{Name: name, Path: path, Type: b.kind}
	if len(b.children) == 0 {
		return node
	}
	names := make([]string, 0, len(b.children))
	for childName := range b.children {
		names = append(names, childName)
	}
	sort.Slice(names, func(i, j int) bool {
		left, right := b.children[names[i]], b.children[names[j]]
		if (left.kind == NodeTypeDir) != (right.kind == NodeTypeDir) {
			return left.kind == NodeTypeDir
		}
		return names[i] < names[j]
	})
	node.Children = make([]*Node, 0, len(names))
	for _, childName := range names {
		childPath := childName
		if path != "" {
			childPath = path + "/" + childName
		}
		node.Children = append(node.Children, b.children[childName].finalize(childName, childPath))
	}
	return node
}

// hasExtension reports whether the final path segment carries a trailing
// dot-extension: a last dot followed by at least one character that is not a
// dot, slash or backslash. Dotfiles like ".gitignore" qualify.
func hasExtension(segment string) bool {
	dot := strings.LastIndexByte(segment, '.')
	if dot < 0 || dot == len(segment)-1 {
		return false
	}
	return !strings.ContainsAny(segment[dot+1:], `./\`)
}
