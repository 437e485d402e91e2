package autodiff

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the expression v represents in fully parenthesized infix
// form, e.g. "((2 + 3) * 2)". Leaves render as literals and negation as "(-x)".
// Shared subexpressions are rendered once per use.
func (v Value) String() string {
	if v.g == nil {
		return "<nil>"
	}
	var b strings.Builder
	v.g.render(&b, v.id)
	return b.String()
}

func (g *Graph) render(b *strings.Builder, id ID) {
	n := &g.nodes[id]
	switch len(n.operands) {
	case 0:
		b.WriteString(formatFloat(n.value))
	case 1:
		b.WriteString("(")
		b.WriteString(n.op.Symbol())
		g.render(b, n.operands[0].id)
		b.WriteString(")")
	default:
		b.WriteString("(")
		g.render(b, n.operands[0].id)
		b.WriteString(" ")
		b.WriteString(n.op.Symbol())
		b.WriteString(" ")
		g.render(b, n.operands[1].id)
		b.WriteString(")")
	}
}

// Dump lists every node of the graph, one per line:
//
//	#0 leaf 2 parents=[#2:1]
//	#2 derived add 5 operands=[#0 #1]
func (g *Graph) Dump() string {
	var b strings.Builder
	for i := range g.nodes {
		n := &g.nodes[i]
		fmt.Fprintf(&b, "#%d %s", i, n.kind)
		if n.op != nil {
			fmt.Fprintf(&b, " %s", n.op.Kind())
		}
		fmt.Fprintf(&b, " %s", formatFloat(n.value))

		if len(n.operands) > 0 {
			b.WriteString(" operands=[")
			for j, o := range n.operands {
				if j > 0 {
					b.WriteString(" ")
				}
				fmt.Fprintf(&b, "#%d", o.id)
			}
			b.WriteString("]")
		}
		if len(n.parents) > 0 {
			b.WriteString(" parents=[")
			for j, e := range n.parents {
				if j > 0 {
					b.WriteString(" ")
				}
				fmt.Fprintf(&b, "#%d:%s", e.parent, formatFloat(e.local))
			}
			b.WriteString("]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
