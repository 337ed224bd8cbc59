// Package remote implements fsys.Provider over SFTP so duplicate searches can
// run on another host.
package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	pathpkg "path"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/sadopc/godupes/internal/fsys"
)

// Config configures an SFTP connection.
type Config struct {
	Target    string // user@host
	Port      int
	BatchMode bool // never prompt
	Timeout   time.Duration
}

type sftpClient interface {
	ReadDir(string) ([]os.FileInfo, error)
	Stat(string) (os.FileInfo, error)
	Lstat(string) (os.FileInfo, error)
	ReadLink(string) (string, error)
	RealPath(string) (string, error)
	Open(string) (io.ReadCloser, error)
}

// SFTPProvider reads a remote filesystem. Remote servers do not report inode
// numbers, so hard links are never collapsed.
type SFTPProvider struct {
	client sftpClient
	closer io.Closer
}

var _ fsys.Provider = (*SFTPProvider)(nil)

var dialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

var sshNewClientConn = func(conn net.Conn, addr string, config *ssh.ClientConfig) (ssh.Conn, <-chan ssh.NewChannel, <-chan *ssh.Request, error) {
	return ssh.NewClientConn(conn, addr, config)
}

// Dial connects to cfg.Target and starts the SFTP subsystem.
func Dial(ctx context.Context, cfg Config) (*SFTPProvider, error) {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("ssh port must be between 1 and 65535")
	}
	user, host, err := ParseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}

	hostCB, err := hostKeyCallback(host, cfg.Port, cfg.BatchMode)
	if err != nil {
		return nil, err
	}
	auth, err := buildAuthMethods(user, host, cfg.BatchMode)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", cfg.Port))
	sshClient, err := connectSSH(dialCtx, addr, &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: hostCB,
		Timeout:         timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("SSH connection failed: %w", err)
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, fmt.Errorf("cannot start SFTP subsystem: %w", err)
	}
	return &SFTPProvider{
		client: clientAdapter{client},
		closer: &remoteCloser{ssh: sshClient, sftp: client},
	}, nil
}

func connectSSH(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	conn, err := dialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// Cancellation must interrupt the handshake too.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	c, chans, reqs, err := sshNewClientConn(conn, addr, config)
	close(done)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

// Close ends the SFTP session and the SSH connection.
func (p *SFTPProvider) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func (p *SFTPProvider) Canonicalize(path string) (string, error) {
	resolved, err := p.client.RealPath(cleanRemotePath(path))
	if err != nil {
		return "", &os.PathError{Op: "realpath", Path: path, Err: err}
	}
	resolved = cleanRemotePath(resolved)
	// Some servers resolve paths that do not exist.
	if _, err := p.client.Stat(resolved); err != nil {
		return "", &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return resolved, nil
}

func (p *SFTPProvider) IsSymlink(path string) bool {
	info, err := p.client.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func (p *SFTPProvider) IsDir(path string) bool {
	info, err := p.client.Stat(path)
	return err == nil && info.IsDir()
}

func (p *SFTPProvider) ReadDir(path string) ([]string, error) {
	entries, err := p.client.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (p *SFTPProvider) Metadata(path string) (fsys.Metadata, error) {
	info, err := p.client.Stat(path)
	if err != nil {
		return fsys.Metadata{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return fsys.Metadata{Size: info.Size(), Mode: info.Mode()}, nil
}

func (p *SFTPProvider) ReadLink(path string) (string, error) {
	return p.client.ReadLink(path)
}

func (p *SFTPProvider) Open(path string) (io.ReadCloser, error) {
	return p.client.Open(path)
}

func (p *SFTPProvider) Join(dir, name string) string {
	return pathpkg.Join(dir, name)
}

func (p *SFTPProvider) Within(root, target string) bool {
	return isWithinRemote(root, target)
}

// clientAdapter narrows *sftp.Client.Open to io.ReadCloser.
type clientAdapter struct {
	*sftp.Client
}

func (c clientAdapter) Open(path string) (io.ReadCloser, error) {
	return c.Client.Open(path)
}

func cleanRemotePath(p string) string {
	if p == "" {
		return "."
	}
	return pathpkg.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// isWithinRemote checks whether target is inside root using POSIX path semantics.
func isWithinRemote(root, target string) bool {
	root = pathpkg.Clean(root)
	target = pathpkg.Clean(target)
	if root == target {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(target, prefix)
}

type remoteCloser struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (c *remoteCloser) Close() error {
	var retErr error
	if c.sftp != nil {
		retErr = c.sftp.Close()
	}
	if c.ssh != nil {
		if err := c.ssh.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}
	return retErr
}
