// Package rendergraph composes a frame from an ordered list of passes wired
// together by name.
//
// A Config describes the passes (type, name and sink to source linkages).
// Graph.Finalize turns it into live passes without resolving any name.
// Graph.Execute then, once per frame and in declared order, resolves every
// sink against the global resource pool first and the outputs of passes that
// already ran this frame second. A pass with an unresolved sink is skipped for
// that frame and nothing else is affected. Producers must therefore be
// declared before their consumers; Config.Diagnose reports when they are not.
package rendergraph
