package tree

import "strings"

// Sprint renders nodes as an ASCII tree under a "/label" header line.
// Directories carry a trailing slash.
func Sprint(label string, nodes []*Node) string {
	var builder strings.Builder
	builder.WriteString("/" + label + "\n")
	writeBranch(&builder, nodes, "")
	return builder.String()
}

func writeBranch(builder *strings.Builder, nodes []*Node, prefix string) {
	for index, node := range nodes {
		connector, continuation := "├── ", "│   "
		if index == len(nodes)-1 {
			connector, continuation = "└── ", "    "
		}
		name := node.Name
		if node.IsDir() {
			name += "/"
		}
		builder.WriteString(prefix + connector + name + "\n")
		writeBranch(builder, node.Children, prefix+continuation)
	}
}
