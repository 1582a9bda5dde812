package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// startServer runs srv in the background and waits until it accepts connections.
func startServer(t *testing.T, srv *Server) <-chan error {
	t.Helper()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServeWithShutdown()
	}()

	select {
	case <-srv.Ready():
	case err := <-errCh:
		t.Fatalf("Server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Server failed to start within timeout")
	}
	return errCh
}

func waitStopped(t *testing.T, errCh <-chan error) {
	t.Helper()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ListenAndServeWithShutdown() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("Server did not shut down in time")
	}
}

func TestServer_Shutdown(t *testing.T) {
	srv := newTestServer(t, testConfig(0))
	errCh := startServer(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v, want nil", err)
	}

	waitStopped(t, errCh)
}

func TestServer_ShutdownOnSignal(t *testing.T) {
	srv := newTestServer(t, testConfig(0))
	errCh := startServer(t, srv)

	// Send SIGINT to trigger shutdown
	syscall.Kill(syscall.Getpid(), syscall.SIGINT)

	waitStopped(t, errCh)
}

func TestServer_ShutdownWithActiveRequests(t *testing.T) {
	srv := newTestServer(t, testConfig(0))

	requestStarted := make(chan struct{})
	requestDone := make(chan struct{})
	srv.mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(requestStarted)
		<-requestDone
		w.Write([]byte("done"))
	})

	errCh := startServer(t, srv)
	addr := srv.Addr()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		resp, err := http.Get("http://" + addr + "/slow")
		if err != nil {
			return
		}
		resp.Body.Close()
	}()

	<-requestStarted

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go srv.Shutdown(ctx)

	time.Sleep(50 * time.Millisecond)
	close(requestDone)
	wg.Wait()

	waitStopped(t, errCh)
}

func TestServer_Addr(t *testing.T) {
	srv := newTestServer(t, testConfig(0))

	if addr := srv.Addr(); addr != "" {
		t.Errorf("Addr() before start = %q, want empty", addr)
	}

	errCh := startServer(t, srv)

	if addr := srv.Addr(); addr == "" {
		t.Error("Addr() after start = empty, want non-empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)

	waitStopped(t, errCh)
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	srv := newTestServer(t, testConfig(8080))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() before start error = %v, want nil", err)
	}
}

func TestServer_ShutdownTimeout(t *testing.T) {
	srv := newTestServer(t, testConfig(0))

	requestStarted := make(chan struct{})
	release := make(chan struct{})
	srv.mux.HandleFunc("/stuck", func(w http.ResponseWriter, r *http.Request) {
		close(requestStarted)
		<-release
	})
	defer close(release)

	startServer(t, srv)
	addr := srv.Addr()

	go http.Get("http://" + addr + "/stuck")
	<-requestStarted

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(ctx); err != context.DeadlineExceeded {
		t.Errorf("Shutdown() with stuck request error = %v, want %v", err, context.DeadlineExceeded)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

func TestServer_StartedEventDescribesBridge(t *testing.T) {
	var logs syncBuffer
	srv := newTestServer(t, testConfig(0), WithLogger(zerolog.New(&logs)))
	errCh := startServer(t, srv)

	srv.Shutdown(context.Background())
	waitStopped(t, errCh)

	var started map[string]interface{}
	for _, line := range logs.Lines() {
		var event map[string]interface{}
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("log line %q is not JSON: %v", line, err)
		}
		if event["message"] == "server started" {
			started = event
		}
	}
	if started == nil {
		t.Fatalf("no server started event in %v", logs.Lines())
	}

	if started["instructions_dir"] != srv.emitter.Dir() {
		t.Errorf("instructions_dir = %v, want %s", started["instructions_dir"], srv.emitter.Dir())
	}
	if started["trigger_keyword"] != "s2cursor" {
		t.Errorf("trigger_keyword = %v, want s2cursor", started["trigger_keyword"])
	}
	if started["enabled"] != true {
		t.Errorf("enabled = %v, want true", started["enabled"])
	}
	if started["authenticated"] != false {
		t.Errorf("authenticated = %v, want false", started["authenticated"])
	}
	if addr, _ := started["addr"].(string); addr == "" {
		t.Error("addr missing from started event")
	}
}
