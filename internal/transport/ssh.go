package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/melih-ucgun/rigup/internal/config"
	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSH runs the bring-up against a remote dev box. The server identity is
// verified against known_hosts; authentication is key-file based.
type SSH struct {
	client *ssh.Client
	fs     core.FileSystem
	host   config.Host
	Env    map[string]string
}

var _ core.Transport = (*SSH)(nil)

// NewSSH opens a verified connection to the configured host.
func NewSSH(h config.Host) (*SSH, error) {
	keyPath, err := expandHome(h.KeyFile)
	if err != nil {
		return nil, err
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read ssh key %s: %w", keyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cannot parse ssh key %s: %w", keyPath, err)
	}

	knownHostsPath := h.KnownHostsFile
	if knownHostsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate home directory: %w", err)
		}
		knownHostsPath = filepath.Join(home, ".ssh", "known_hosts")
	}
	hostKeyCallback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("cannot load known_hosts (%s): %w; connect once with plain ssh to record the host key", knownHostsPath, err)
	}

	clientConfig := &ssh.ClientConfig{
		User:            h.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         15 * time.Second,
	}

	port := h.Port
	if port == 0 {
		port = 22
	}

	addr := fmt.Sprintf("%s:%d", h.Addr, port)
	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("ssh connection to %s failed (identity rejected or host unreachable): %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("sftp subsystem unavailable on %s: %w", addr, err)
	}

	return &SSH{
		client: client,
		fs:     NewSFTPFS(sftpClient),
		host:   h,
	}, nil
}

func (t *SSH) Execute(ctx context.Context, cmdline string) (string, error) {
	return t.ExecuteIn(ctx, "", cmdline)
}

// ExecuteIn runs cmdline in dir on the remote side. The directory change
// lives inside the remote shell invocation only.
func (t *SSH) ExecuteIn(ctx context.Context, dir, cmdline string) (string, error) {
	session, err := t.client.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	full := t.exports() + cmdline
	if dir != "" {
		full = fmt.Sprintf("cd %s && %s", shellQuote(dir), full)
	}

	// Session API has no context support; closing the session on cancel
	// unblocks CombinedOutput.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			session.Close()
		case <-done:
		}
	}()

	out, err := session.CombinedOutput(full)
	if ctx.Err() != nil {
		return string(out), ctx.Err()
	}
	return string(out), err
}

// exports renders the transport env as a deterministic shell prefix.
func (t *SSH) exports() string {
	if len(t.Env) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.Env))
	for k := range t.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "export %s=%s; ", k, shellQuote(t.Env[k]))
	}
	return sb.String()
}

func (t *SSH) FileSystem() core.FileSystem { return t.fs }

func (t *SSH) Describe() string {
	return fmt.Sprintf("%s@%s", t.host.User, t.host.Addr)
}

func (t *SSH) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand %s: %w", path, err)
	}
	return filepath.Join(home, path[2:]), nil
}
