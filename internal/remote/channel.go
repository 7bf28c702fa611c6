package remote

import (
	"context"
	"fmt"

	"github.com/amscan/ordersync/internal/domain"
)

// FileChannel is the remote file-transfer collaborator: connect, list, fetch,
// delete, disconnect. Implementations are opened fresh per sync cycle and
// must tolerate being closed more than once.
type FileChannel interface {
	Connect(ctx context.Context) error
	List(ctx context.Context, dir string) ([]domain.RemoteFileCandidate, error)
	Fetch(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	Close() error
}

// ChannelError wraps a failed channel primitive. Channel errors abort the
// whole cycle rather than a single file.
type ChannelError struct {
	Op  string
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("file channel %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
