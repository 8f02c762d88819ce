// Package document ties the backing buffer store, piece tree, marker
// list, overlay engine, virtual-text engine, margin indicators, edit
// event log, and cursor set into a single owned Document: one piece tree,
// one marker list, one overlay set, one event log, exclusively owned.
//
// Document is the seam every other package's narrow TextSource/Applier
// interfaces are written against — internal/viewport.TextSource,
// internal/cursor.TextSource, internal/search.TextSource/Applier, and
// internal/history.Applier all describe a slice of Document's behavior,
// and a *piecetree.Tree embedded inside Document satisfies most of them
// directly by promotion.
package document
