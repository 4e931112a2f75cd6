package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultDialTimeout bounds how long a client waits for the daemon.
const DefaultDialTimeout = 2 * time.Second

// Client sends commands to a running daemon.
type Client struct {
	path    string
	timeout time.Duration
}

// NewClient builds a Client for the given socket path.
func NewClient(path string) *Client {
	return &Client{path: path, timeout: DefaultDialTimeout}
}

// Do sends a single request and waits for the reply. A Response with
// OK=false is returned as an error.
func (c *Client) Do(req Request) (Response, error) {
	conn, err := dial(c.path, c.timeout)
	if err != nil {
		return Response{}, fmt.Errorf("ipc: connect to %s: %w (is voxtyped running?)", c.path, err)
	}
	defer conn.Close()

	b, err := encode(req)
	if err != nil {
		return Response{}, err
	}
	conn.SetDeadline(time.Now().Add(c.timeout))
	if _, err := conn.Write(b); err != nil {
		return Response{}, fmt.Errorf("ipc: send: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return Response{}, fmt.Errorf("ipc: read reply: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return Response{}, fmt.Errorf("ipc: decode reply: %w", err)
	}
	if !resp.OK {
		return resp, fmt.Errorf("ipc: %s", resp.Error)
	}
	return resp, nil
}

// Ping checks whether the daemon is reachable.
func (c *Client) Ping() error {
	_, err := c.Do(Request{Command: CmdPing})
	return err
}

// Status fetches the daemon's current state.
func (c *Client) Status() (Status, error) {
	resp, err := c.Do(Request{Command: CmdStatus})
	if err != nil {
		return Status{}, err
	}
	if resp.Status == nil {
		return Status{}, fmt.Errorf("ipc: empty status reply")
	}
	return *resp.Status, nil
}

// Toggle flips recording on or off and returns the new state.
func (c *Client) Toggle() (Status, error) {
	resp, err := c.Do(Request{Command: CmdToggle})
	if err != nil {
		return Status{}, err
	}
	if resp.Status == nil {
		return Status{}, fmt.Errorf("ipc: empty toggle reply")
	}
	return *resp.Status, nil
}

// Cancel discards an in-progress recording.
func (c *Client) Cancel() error {
	_, err := c.Do(Request{Command: CmdCancel})
	return err
}

// Reload asks the daemon to re-read its configuration.
func (c *Client) Reload() error {
	_, err := c.Do(Request{Command: CmdReload})
	return err
}

// History fetches recent transcriptions, newest first.
func (c *Client) History(limit int) ([]HistoryEntry, error) {
	resp, err := c.Do(Request{Command: CmdHistory, Limit: limit})
	if err != nil {
		return nil, err
	}
	return resp.History, nil
}
