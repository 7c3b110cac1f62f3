package tracking

// SessionState is the state of a session's streaming loop.
//
//	Running ──┬──> Completed
//	          └──> Cancelled
type SessionState int

const (
	Running SessionState = iota
	Completed
	Cancelled
)

func (s SessionState) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the loop has stopped for good.
func (s SessionState) IsTerminal() bool {
	return s == Completed || s == Cancelled
}
