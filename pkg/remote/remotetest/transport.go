// Package remotetest provides an in-memory remote.Transport for tests.
package remotetest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pringinacio/ivxv/pkg/remote"
)

// Call is a recorded Run request.
type Call struct {
	Host         string
	Account      string
	Command      string
	ForwardAgent bool
}

type response struct {
	host     string
	contains string
	result   remote.Result
	err      error
}

// Transport answers commands from registered responses and keeps remote
// files in memory keyed by "host:path". Unmatched commands succeed with no
// output.
type Transport struct {
	mu        sync.Mutex
	calls     []Call
	copies    []remote.CopyRequest
	responses []response
	copyErrs  map[string]error
	files     map[string][]byte
}

func New() *Transport {
	return &Transport{
		copyErrs: make(map[string]error),
		files:    make(map[string][]byte),
	}
}

// On registers the result for commands on host containing substr. An empty
// host matches every host. The first matching registration wins.
func (t *Transport) On(host, substr string, res remote.Result) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses = append(t.responses, response{host: host, contains: substr, result: res})
	return t
}

// Fail makes matching commands exit with code.
func (t *Transport) Fail(host, substr string, code int) *Transport {
	return t.On(host, substr, remote.Result{ExitCode: code, Stderr: fmt.Sprintf("%s failed", substr)})
}

// Unreachable makes every request to host fail at the transport level.
func (t *Transport) Unreachable(host string) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses = append(t.responses, response{host: host, err: fmt.Errorf("dial %s: connection refused", host)})
	t.copyErrs[host+":"] = fmt.Errorf("dial %s: connection refused", host)
	return t
}

// FailCopy makes copies of the remote path on host fail.
func (t *Transport) FailCopy(host, path string) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.copyErrs[host+":"+path] = fmt.Errorf("%s: no such file", path)
	return t
}

// PutFile stores a remote file.
func (t *Transport) PutFile(host, path string, data []byte) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[host+":"+path] = data
	return t
}

// File returns a remote file.
func (t *Transport) File(host, path string) ([]byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.files[host+":"+path]
	return data, ok
}

// Calls returns every recorded Run request.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Commands returns the commands run on host, or on every host when host is
// empty.
func (t *Transport) Commands(host string) []string {
	var out []string
	for _, c := range t.Calls() {
		if host == "" || c.Host == host {
			out = append(out, c.Command)
		}
	}
	return out
}

// Copies returns every recorded copy request.
func (t *Transport) Copies() []remote.CopyRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]remote.CopyRequest(nil), t.copies...)
}

func (t *Transport) Run(_ context.Context, req remote.Request) (remote.Result, error) {
	t.mu.Lock()
	t.calls = append(t.calls, Call{
		Host:         req.Host,
		Account:      req.Account,
		Command:      req.Command,
		ForwardAgent: req.ForwardAgent,
	})
	responses := t.responses
	t.mu.Unlock()

	if req.Stdin != nil {
		_, _ = io.Copy(io.Discard, req.Stdin)
	}

	for _, r := range responses {
		if r.host != "" && r.host != req.Host {
			continue
		}
		if !strings.Contains(req.Command, r.contains) {
			continue
		}
		if r.err != nil {
			return remote.Result{}, r.err
		}
		return r.result, nil
	}
	return remote.Result{}, nil
}

func (t *Transport) Copy(_ context.Context, req remote.CopyRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.copies = append(t.copies, req)

	if err := t.copyErrs[req.Host+":"]; err != nil {
		return err
	}
	if err := t.copyErrs[req.Host+":"+req.Remote]; err != nil {
		return err
	}

	key := req.Host + ":" + req.Remote
	switch req.Direction {
	case remote.Upload:
		data, err := os.ReadFile(req.Local)
		if err != nil {
			return err
		}
		t.files[key] = data
	case remote.Download:
		data, ok := t.files[key]
		if !ok {
			return fmt.Errorf("%s: no such file", req.Remote)
		}
		return os.WriteFile(req.Local, data, 0o600)
	}
	return nil
}
