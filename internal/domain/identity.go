package domain

// Identity is a durable record binding a full name to at most one user.
// Records are provisioned administratively; this subsystem only sets the
// binding and the phone, never creates or deletes names.
type Identity struct {
	FullName string
	UserID   *int64 // nil until a user claims the name
	Phone    string
}

// ResolveOutcome is the result of resolving a submitted full name
// against the identity table.
type ResolveOutcome int

const (
	// ResolveNotFound means no identity record carries the name.
	ResolveNotFound ResolveOutcome = iota
	// ResolveBound means the name is now (or already was) bound to the user.
	ResolveBound
	// ResolveConflict means the name is bound to a different user.
	ResolveConflict
)

func (o ResolveOutcome) String() string {
	switch o {
	case ResolveNotFound:
		return "not-found"
	case ResolveBound:
		return "bound"
	case ResolveConflict:
		return "conflict"
	}
	return "unknown"
}
