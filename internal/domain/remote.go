package domain

import "time"

// RemoteFileCandidate is one entry from listing the remote store. Transient:
// consumed entirely within a single sync cycle, never persisted.
type RemoteFileCandidate struct {
	Name    string
	Size    int64
	ModTime time.Time // zero value means the server reported no usable date
	Regular bool
}
