package replay

import (
	"fmt"

	tp "github.com/xlab/treeprint"

	"github.com/npillmayer/forest/forest"
)

// Render prints the structure of f as an indented tree, one node per line,
// labelled with ID and position.
func Render(f *forest.Forest) string {
	printer := tp.New()
	renderChildren(f, printer.AddBranch(fmt.Sprintf("forest (%d nodes)", f.Len())), forest.Root)
	return printer.String()
}

func renderChildren(f *forest.Forest, branch tp.Tree, id forest.ID) {
	children, _ := f.Children(id)
	for _, ch := range children {
		n, _ := f.Node(ch)
		label := fmt.Sprintf("%d @%d", n.ID, n.Index)
		grandchildren, _ := f.Children(ch)
		if len(grandchildren) == 0 {
			branch.AddNode(label)
			continue
		}
		renderChildren(f, branch.AddBranch(label), ch)
	}
}
