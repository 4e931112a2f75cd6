//go:build !windows

package ipc

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	recording bool
	toggleErr error
	reloads   int
}

func (h *fakeHandler) Status() Status {
	return Status{Mode: "modifier_double_tap", Recording: h.recording, Source: "hook"}
}

func (h *fakeHandler) Toggle() (Status, error) {
	if h.toggleErr != nil {
		return Status{}, h.toggleErr
	}
	h.recording = !h.recording
	return h.Status(), nil
}

func (h *fakeHandler) Cancel() error { return nil }

func (h *fakeHandler) Reload() error {
	h.reloads++
	return nil
}

func (h *fakeHandler) History(limit int) ([]HistoryEntry, error) {
	entries := []HistoryEntry{
		{ID: 2, Text: "second"},
		{ID: 1, Text: "first"},
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func startTestServer(t *testing.T, h Handler) (*Client, *Server) {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "voxtyped.sock")
	srv := NewServer(sock, h, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return NewClient(sock), srv
}

func TestPing(t *testing.T) {
	client, _ := startTestServer(t, &fakeHandler{})
	require.NoError(t, client.Ping())
}

func TestStatusAndToggle(t *testing.T) {
	h := &fakeHandler{}
	client, _ := startTestServer(t, h)

	st, err := client.Status()
	require.NoError(t, err)
	assert.False(t, st.Recording)
	assert.Equal(t, "modifier_double_tap", st.Mode)

	st, err = client.Toggle()
	require.NoError(t, err)
	assert.True(t, st.Recording)
}

func TestToggleError(t *testing.T) {
	h := &fakeHandler{toggleErr: errors.New("recorder busy")}
	client, _ := startTestServer(t, h)

	_, err := client.Toggle()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recorder busy")
}

func TestReload(t *testing.T) {
	h := &fakeHandler{}
	client, _ := startTestServer(t, h)

	require.NoError(t, client.Reload())
	assert.Equal(t, 1, h.reloads)
}

func TestHistoryLimit(t *testing.T) {
	client, _ := startTestServer(t, &fakeHandler{})

	entries, err := client.History(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ID)
}

func TestUnknownCommand(t *testing.T) {
	client, _ := startTestServer(t, &fakeHandler{})

	_, err := client.Do(Request{Command: "selfdestruct"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestMalformedRequest(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "voxtyped.sock")
	srv := NewServer(sock, &fakeHandler{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))
	defer func() {
		cancel()
		srv.Close()
	}()

	conn, err := net.Dial("unix", sock)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("this is not json\n"))
	require.NoError(t, err)

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "malformed request")
}

func TestStaleSocketRemoved(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "voxtyped.sock")

	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	ln.(*net.UnixListener).SetUnlinkOnClose(false)
	ln.Close()

	srv := NewServer(sock, &fakeHandler{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))
	defer func() {
		cancel()
		srv.Close()
	}()

	require.NoError(t, NewClient(sock).Ping())
}

func TestLiveSocketRefused(t *testing.T) {
	h := &fakeHandler{}
	sock := filepath.Join(t.TempDir(), "voxtyped.sock")

	first := NewServer(sock, h, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, first.Start(ctx))
	defer func() {
		cancel()
		first.Close()
	}()

	second := NewServer(sock, h, nil)
	err := second.Start(context.Background())
	require.Error(t, err)
}
