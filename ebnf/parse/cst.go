// Package parse checks token streams against an EBNF grammar with an Earley
// parser and builds concrete syntax trees.
package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/ahi/ebnflex"
)

// Span represents a range in source code.
type Span struct {
	Start ebnflex.Position
	End   ebnflex.Position
}

// Node represents a node in the concrete syntax tree.
// Leaf nodes have a non-nil Token; interior nodes have Children.
type Node struct {
	Kind     string         // Production name or token name
	Children []*Node        // Child nodes (nil for terminals)
	Token    *ebnflex.Token // The token (non-nil for terminals)
	Span     Span           // Source span covering this node
}

// IsTerminal returns true if this is a leaf node (token).
func (n *Node) IsTerminal() bool {
	return n.Token != nil
}

// Text returns the token literal of a terminal and the space separated
// literals of all terminals below an interior node.
func (n *Node) Text() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	var parts []string
	for _, c := range n.Children {
		if t := c.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// AddChild appends a child node and updates the span.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	if len(n.Children) == 1 {
		n.Span.Start = child.Span.Start
	}
	n.Span.End = child.Span.End
}

// Print writes the tree rooted at n, one node per line, indented by depth.
func (n *Node) Print(w io.Writer) error {
	return n.print(w, 0)
}

func (n *Node) print(w io.Writer, depth int) error {
	indent := strings.Repeat("  ", depth)
	if n.IsTerminal() {
		_, err := fmt.Fprintf(w, "%s%s %q\n", indent, n.Kind, n.Token.Literal)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", indent, n.Kind); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.print(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// NewTerminal creates a terminal node from a token.
func NewTerminal(tok ebnflex.Token) *Node {
	end := tok.Position
	end.Offset += len(tok.Literal)
	for _, r := range tok.Literal {
		if r == '\n' {
			end.Line++
			end.Column = 1
		} else {
			end.Column++
		}
	}
	return &Node{
		Kind:  tok.Name,
		Token: &tok,
		Span:  Span{Start: tok.Position, End: end},
	}
}

// NewNonTerminal creates a non-terminal node.
func NewNonTerminal(kind string) *Node {
	return &Node{
		Kind:     kind,
		Children: make([]*Node, 0),
	}
}
