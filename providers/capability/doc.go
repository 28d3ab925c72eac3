// Package capability provides the foundational types for the external tools
// conclave agents may invoke while producing a turn.
//
// A [Capability] binds a name, description, and argument schema to an
// invocation function; [NewFunc] adapts a strongly-typed Go function into the
// interface. The [Catalog] type offers a thread-safe registry keyed by name.
//
// Capability failures are reported as [*Error]. They are never fatal to a
// turn: the agent folds the failure into its conversation as a note and
// proceeds with partial information.
package capability
