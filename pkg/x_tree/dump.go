// file: phfwd/pkg/x_tree/dump.go
package x_tree

import (
	"fmt"
	"io"
	"strings"
)

//---------------------
// Tree Dump (Debug)
//---------------------

// Dump writes a visual tree representation to w.
func (t *Tree[P]) Dump(w io.Writer) {
	if t == nil || t.live == 0 {
		fmt.Fprintln(w, "EMPTY")
		return
	}
	wk := newWalker(frame{id: root}, "")
	for f, ok := wk.next(); ok; f, ok = wk.next() {
		n := &t.nodes[f.id]
		label := "ROOT"
		if f.depth > 0 {
			label = "NODE " + string(f.sym)
		}
		if n.has {
			fmt.Fprintf(w, "%s%s Key: %q Value: %+v\n", dumpPre(f.depth), label, wk.key(), n.payload)
		} else {
			fmt.Fprintf(w, "%s%s\n", dumpPre(f.depth), label)
		}
		wk.push(&n.child, f.depth)
	}
	fmt.Fprintln(w)
}

//---------------------
// Indentation Helper
//---------------------

func dumpPre(depth int) string {
	if depth == 0 {
		return "-- "
	}
	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	b.WriteString("|__ ")
	return b.String()
}
