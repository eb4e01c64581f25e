package app

// Round result states returned by TryResolveRound.
const (
	ResolutionPending  = "pending"
	ResolutionResolved = "resolved"
)
