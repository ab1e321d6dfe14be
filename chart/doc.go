// Package chart holds the declarative description of what a widget draws:
// an ordered list of labeled values plus presentation options.
//
// A Config is built fresh for every render request. The binder hands the
// renderer a Clone, so nothing the renderer does can reach back into the
// data source's copy.
package chart
