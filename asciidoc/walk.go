package asciidoc

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. If f returns false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Nodes() {
		Inspect(c, f)
	}
}

// PathAt returns the chain of nodes whose location contains pos, from the
// root down to the innermost node.
func PathAt(root Node, pos Position) []Node {
	var path []Node
	for n := root; n != nil; {
		path = append(path, n)
		var next Node
		for _, c := range n.Nodes() {
			if c.Bounds().Loc.Contains(pos) {
				next = c
				break
			}
		}
		n = next
	}
	return path
}

// Sections returns the top-level sections of the document, which in turn
// hold their subsections.
func (d *Document) Sections() []*Section {
	var out []*Section
	for _, c := range d.Children {
		if s, ok := c.(*Section); ok {
			out = append(out, s)
		}
	}
	return out
}

// Subsections returns the sections directly nested in s.
func (s *Section) Subsections() []*Section {
	var out []*Section
	for _, c := range s.Children {
		if sub, ok := c.(*Section); ok {
			out = append(out, sub)
		}
	}
	return out
}
