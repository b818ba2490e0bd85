package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig configures the native SSH transport.
type SSHConfig struct {
	Port           int
	KeyPath        string
	Passphrase     []byte
	KnownHostsPath string
	Timeout        time.Duration
	// AgentSocket is used for authentication and forwarding when set,
	// usually from SSH_AUTH_SOCK.
	AgentSocket string
}

// SSHTransport runs commands over golang.org/x/crypto/ssh. Every request
// opens its own connection.
type SSHTransport struct {
	cfg SSHConfig

	mu      sync.Mutex
	keyring agent.Agent
}

func NewSSHTransport(cfg SSHConfig) *SSHTransport {
	return &SSHTransport{cfg: cfg}
}

func (t *SSHTransport) Run(ctx context.Context, req Request) (Result, error) {
	client, err := t.dial(ctx, req.Host, req.Account)
	if err != nil {
		return Result{}, err
	}
	defer client.Close()
	stop := closeOnDone(ctx, client)
	defer stop()

	session, err := client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("can't open session on %s: %w", req.Host, err)
	}
	defer session.Close()

	if req.ForwardAgent {
		if err := t.forwardAgent(client, session); err != nil {
			return Result{}, err
		}
	}

	var stdout, stderr bytes.Buffer
	if req.CaptureStdout {
		session.Stdout = &stdout
	}
	session.Stderr = &stderr
	session.Stdin = req.Stdin

	err = session.Run(req.Command)
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitStatus()
		return res, nil
	}
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	return Result{}, fmt.Errorf("command on %s: %w", req.Host, err)
}

// Copy streams file content through cat so the remote side needs nothing but
// a shell.
func (t *SSHTransport) Copy(ctx context.Context, req CopyRequest) error {
	switch req.Direction {
	case Upload:
		f, err := os.Open(req.Local)
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := t.Run(ctx, Request{
			Host:    req.Host,
			Account: req.Account,
			Command: "cat > " + Quote(req.Remote),
			Stdin:   f,
		})
		if err != nil {
			return err
		}
		if !res.Success() {
			return fmt.Errorf("writing %s:%s: %s", req.Host, req.Remote, res.Reason())
		}
		return nil

	case Download:
		return t.download(ctx, req)
	}
	return fmt.Errorf("unknown copy direction %d", req.Direction)
}

func (t *SSHTransport) download(ctx context.Context, req CopyRequest) error {
	client, err := t.dial(ctx, req.Host, req.Account)
	if err != nil {
		return err
	}
	defer client.Close()
	stop := closeOnDone(ctx, client)
	defer stop()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("can't open session on %s: %w", req.Host, err)
	}
	defer session.Close()

	f, err := os.Create(req.Local)
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	session.Stdout = f
	session.Stderr = &stderr
	runErr := session.Run("cat " + Quote(req.Remote))
	closeErr := f.Close()

	if runErr != nil {
		_ = os.Remove(req.Local)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("reading %s:%s: %s", req.Host, req.Remote, msg)
		}
		return fmt.Errorf("reading %s:%s: %w", req.Host, req.Remote, runErr)
	}
	return closeErr
}

func (t *SSHTransport) dial(ctx context.Context, host, account string) (*ssh.Client, error) {
	address := t.address(host)
	config, agentConns, err := t.clientConfig(account)
	if err != nil {
		return nil, err
	}
	defer func() { _ = agentConns.Close() }()

	dialer := net.Dialer{Timeout: t.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("can't connect to %s: %w", address, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", address, err)
	}
	return ssh.NewClient(clientConn, chans, reqs), nil
}

func (t *SSHTransport) address(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	port := t.cfg.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// clientConfig returns the client configuration and the agent connections it
// opens during authentication. They must be closed once the handshake is over.
func (t *SSHTransport) clientConfig(account string) (*ssh.ClientConfig, *agentAuth, error) {
	conns := &agentAuth{socket: t.cfg.AgentSocket}
	if account == "" {
		return nil, conns, errors.New("ssh account is required")
	}

	var auth []ssh.AuthMethod
	if t.cfg.KeyPath != "" {
		signer, err := t.signer()
		if err != nil {
			return nil, conns, err
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if t.cfg.AgentSocket != "" {
		auth = append(auth, ssh.PublicKeysCallback(conns.signers))
	}
	if len(auth) == 0 {
		return nil, conns, errors.New("neither ssh key nor ssh agent configured")
	}

	hostKeyCallback, err := t.knownHostsCallback()
	if err != nil {
		return nil, conns, err
	}

	return &ssh.ClientConfig{
		User:            account,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         t.cfg.Timeout,
	}, conns, nil
}

// agentAuth hands out the keys of a running ssh-agent. Agent signers sign over
// the connection they were listed on, so it stays open until Close.
type agentAuth struct {
	socket string

	mu    sync.Mutex
	conns []net.Conn
}

func (a *agentAuth) signers() ([]ssh.Signer, error) {
	conn, err := net.Dial("unix", a.socket)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.conns = append(a.conns, conn)
	a.mu.Unlock()
	return agent.NewClient(conn).Signers()
}

func (a *agentAuth) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for _, conn := range a.conns {
		errs = append(errs, conn.Close())
	}
	a.conns = nil
	return errors.Join(errs...)
}

func (t *SSHTransport) readKey() ([]byte, error) {
	key, err := os.ReadFile(t.cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("can't read ssh key: %w", err)
	}
	return key, nil
}

func (t *SSHTransport) signer() (ssh.Signer, error) {
	key, err := t.readKey()
	if err != nil {
		return nil, err
	}
	if len(t.cfg.Passphrase) > 0 {
		return ssh.ParsePrivateKeyWithPassphrase(key, t.cfg.Passphrase)
	}
	return ssh.ParsePrivateKey(key)
}

func (t *SSHTransport) knownHostsCallback() (ssh.HostKeyCallback, error) {
	path := strings.TrimSpace(t.cfg.KnownHostsPath)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.New("known hosts path not set and home dir unavailable")
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	return knownhosts.New(path)
}

// forwardAgent serves agent requests from the remote side either from the
// local ssh-agent or from an in-process keyring holding the configured key.
func (t *SSHTransport) forwardAgent(client *ssh.Client, session *ssh.Session) error {
	if t.cfg.AgentSocket != "" {
		if err := agent.ForwardToRemote(client, t.cfg.AgentSocket); err != nil {
			return fmt.Errorf("agent forwarding: %w", err)
		}
	} else {
		keyring, err := t.loadKeyring()
		if err != nil {
			return err
		}
		if err := agent.ForwardToAgent(client, keyring); err != nil {
			return fmt.Errorf("agent forwarding: %w", err)
		}
	}
	return agent.RequestAgentForwarding(session)
}

func (t *SSHTransport) loadKeyring() (agent.Agent, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.keyring != nil {
		return t.keyring, nil
	}
	if t.cfg.KeyPath == "" {
		return nil, errors.New("agent forwarding requires an ssh key or agent socket")
	}

	key, err := t.readKey()
	if err != nil {
		return nil, err
	}
	var raw any
	if len(t.cfg.Passphrase) > 0 {
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(key, t.cfg.Passphrase)
	} else {
		raw, err = ssh.ParseRawPrivateKey(key)
	}
	if err != nil {
		return nil, fmt.Errorf("can't parse ssh key: %w", err)
	}

	keyring := agent.NewKeyring()
	if err := keyring.Add(agent.AddedKey{PrivateKey: raw}); err != nil {
		return nil, err
	}
	t.keyring = keyring
	return keyring, nil
}

// closeOnDone tears the connection down when ctx is cancelled so a blocked
// session returns.
func closeOnDone(ctx context.Context, c io.Closer) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}
