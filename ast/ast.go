package ast

import "joosc/report"

// Node is the abstract interface for all AST nodes.
type Node interface {
	// Span returns the source range the node covers.
	Span() report.SourceRange
}

// NodeBase is a utility base struct for all AST nodes.
type NodeBase struct {
	span report.SourceRange
}

// NewNodeBaseOn creates a node base with the given span.
func NewNodeBaseOn(span report.SourceRange) NodeBase {
	return NodeBase{span: span}
}

// NewNodeBaseOver creates a node base spanning over two spans.
func NewNodeBaseOver(start, end report.SourceRange) NodeBase {
	return NodeBase{span: report.MergeRanges(start, end)}
}

func (nb NodeBase) Span() report.SourceRange {
	return nb.span
}
