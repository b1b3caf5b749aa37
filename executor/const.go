package executor

// paging defaults for the list queries
const (
	DefaultCount = int32(20)
	MaxCount     = int32(100)
)
