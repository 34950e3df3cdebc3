package events

// Mutation is published after an operation changed a connection graph.
type Mutation struct {
	Graph     string   // Graph identifier, empty for anonymous graphs
	Op        string   // Operation name, e.g. "connect" or "collapse"
	Nodes     []string // Operands in the order given
	NodeCount int      // Nodes present after the operation
	EdgeCount int      // Connections present after the operation
}

// GraphCreated is published when a live graph is registered.
type GraphCreated struct {
	Graph string
}

// GraphDeleted is published when a live graph is dropped.
type GraphDeleted struct {
	Graph string
}

// SnapshotSaved is published after a graph snapshot was persisted.
type SnapshotSaved struct {
	Graph    string
	Snapshot string
	Name     string
}
