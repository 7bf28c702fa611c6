package remote

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/amscan/ordersync/internal/domain"
)

// SFTPCredentials identify one SFTP endpoint. Loaded explicitly from config;
// IsLoaded gates any connection attempt.
type SFTPCredentials struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Directory string
}

// IsLoaded reports whether the credentials are complete enough to connect.
func (c SFTPCredentials) IsLoaded() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

func (c SFTPCredentials) addr() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", port))
}

// SFTPChannel is the production FileChannel. Single connection attempt, no
// retries, no keepalive, and a deliberately small algorithm set: the upstream
// servers are old and negotiate badly, and retry storms get clients
// rate-limited.
type SFTPChannel struct {
	creds SFTPCredentials

	conn *ssh.Client
	sftp *sftp.Client
}

func NewSFTPChannel(creds SFTPCredentials) *SFTPChannel {
	return &SFTPChannel{creds: creds}
}

const connectTimeout = 30 * time.Second

func (c *SFTPChannel) Connect(ctx context.Context) error {
	// Always start from a clean state.
	if err := c.Close(); err != nil {
		log.Printf("[sftp] Pre-connect cleanup: %v", err)
	}

	if !c.creds.IsLoaded() {
		return &ChannelError{Op: "connect", Err: fmt.Errorf("sftp credentials not loaded")}
	}

	cfg := &ssh.ClientConfig{
		User: c.creds.Username,
		Auth: []ssh.AuthMethod{ssh.Password(c.creds.Password)},
		// Host keys are not pinned; the transfer is gated on credentials and
		// the upstream boxes rotate keys without notice.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         connectTimeout,
		Config: ssh.Config{
			KeyExchanges: []string{"diffie-hellman-group14-sha256"},
			Ciphers:      []string{"aes128-ctr"},
			MACs:         []string{"hmac-sha2-256"},
		},
		HostKeyAlgorithms: []string{ssh.KeyAlgoRSA, ssh.KeyAlgoRSASHA256},
	}

	addr := c.creds.addr()
	log.Printf("[sftp] Connecting to %s (single attempt)", addr)

	dialer := net.Dialer{Timeout: connectTimeout}
	raw, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return &ChannelError{Op: "connect", Err: err}
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(raw, addr, cfg)
	if err != nil {
		raw.Close()
		return &ChannelError{Op: "connect", Err: err}
	}
	c.conn = ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(c.conn)
	if err != nil {
		c.conn.Close()
		c.conn = nil
		return &ChannelError{Op: "connect", Err: fmt.Errorf("open sftp subsystem: %w", err)}
	}
	c.sftp = client

	log.Printf("[sftp] Connected to %s", addr)
	return nil
}

func (c *SFTPChannel) List(ctx context.Context, dir string) ([]domain.RemoteFileCandidate, error) {
	if c.sftp == nil {
		return nil, &ChannelError{Op: "list", Err: fmt.Errorf("not connected")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ChannelError{Op: "list", Err: err}
	}

	entries, err := c.sftp.ReadDir(dir)
	if err != nil {
		return nil, &ChannelError{Op: "list", Err: err}
	}

	candidates := make([]domain.RemoteFileCandidate, 0, len(entries))
	for _, fi := range entries {
		candidates = append(candidates, domain.RemoteFileCandidate{
			Name:    fi.Name(),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
			Regular: fi.Mode().IsRegular(),
		})
	}
	return candidates, nil
}

func (c *SFTPChannel) Fetch(ctx context.Context, remotePath string) ([]byte, error) {
	if c.sftp == nil {
		return nil, &ChannelError{Op: "fetch", Err: fmt.Errorf("not connected")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ChannelError{Op: "fetch", Err: err}
	}

	f, err := c.sftp.Open(remotePath)
	if err != nil {
		return nil, &ChannelError{Op: "fetch", Err: err}
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, &ChannelError{Op: "fetch", Err: err}
	}
	return buf, nil
}

func (c *SFTPChannel) Delete(ctx context.Context, remotePath string) error {
	if c.sftp == nil {
		return &ChannelError{Op: "delete", Err: fmt.Errorf("not connected")}
	}
	if err := ctx.Err(); err != nil {
		return &ChannelError{Op: "delete", Err: err}
	}
	if err := c.sftp.Remove(remotePath); err != nil {
		return &ChannelError{Op: "delete", Err: err}
	}
	return nil
}

// Close tears the connection down. Safe to call repeatedly and on a channel
// that never connected.
func (c *SFTPChannel) Close() error {
	var first error
	if c.sftp != nil {
		if err := c.sftp.Close(); err != nil && first == nil {
			first = err
		}
		c.sftp = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && first == nil {
			first = err
		}
		c.conn = nil
	}
	return first
}

// Join builds a remote file path from the configured directory and name.
func Join(dir, name string) string {
	if dir == "" {
		dir = "/"
	}
	return path.Join(dir, name)
}
