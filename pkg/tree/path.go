package tree

import "strings"

// PathFormatter supplies the two pieces of a path string that depend on
// where a tree came from: the separator placed between ancestor names and
// the descriptor appended after the last one. File-system trees use the OS
// path separator and a human-readable size; citation trees use " : " and a
// citation count.
type PathFormatter interface {
	Separator() string
	Suffix(n *Node) string
}

// PathString joins the names from the root down to n with f's separator and
// appends f's suffix for n.
func (n *Node) PathString(f PathFormatter) string {
	var names []string
	for p := n; p != nil; p = p.parent {
		names = append(names, p.name)
	}
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString(names[i])
		if i > 0 {
			b.WriteString(f.Separator())
		}
	}
	b.WriteString(f.Suffix(n))
	return b.String()
}

// NewFormatter returns a [PathFormatter] with a fixed separator and the
// given suffix function. A nil suffix function appends nothing.
func NewFormatter(sep string, suffix func(*Node) string) PathFormatter {
	return funcFormatter{sep: sep, suffix: suffix}
}

type funcFormatter struct {
	sep    string
	suffix func(*Node) string
}

func (f funcFormatter) Separator() string { return f.sep }

func (f funcFormatter) Suffix(n *Node) string {
	if f.suffix == nil {
		return ""
	}
	return f.suffix(n)
}
