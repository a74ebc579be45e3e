package store

import "fmt"

// Names of the remote operations, as carried by RemoteOperationFailed.
const (
	OpList    = "list notes"
	OpCreate  = "create note"
	OpUpdate  = "update note"
	OpArchive = "toggle archive"
	OpDelete  = "delete note"
)

// RemoteOperationFailed is returned by every store operation whose remote
// call failed. The store state is unchanged when it is returned.
type RemoteOperationFailed struct {
	Op  string
	Err error
}

func (e *RemoteOperationFailed) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteOperationFailed) Unwrap() error {
	return e.Err
}
