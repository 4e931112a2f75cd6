// Package ipc provides inter-process communication between the voxtyped
// daemon and the voxctl client over a unix domain socket.
//
// The protocol is newline-delimited JSON: one Request per line from the
// client, one Response per line back. Connections are short-lived; a
// client sends a single command and disconnects.
package ipc

import "encoding/json"

// Commands understood by the daemon.
const (
	CmdPing    = "ping"
	CmdStatus  = "status"
	CmdToggle  = "toggle"
	CmdCancel  = "cancel"
	CmdReload  = "reload"
	CmdHistory = "history"
)

// Request is a client command.
type Request struct {
	// Command is one of the Cmd constants.
	Command string `json:"command"`

	// Limit bounds history results, 0 for the default.
	Limit int `json:"limit,omitempty"`
}

// Response is the daemon's reply.
type Response struct {
	// OK reports whether the command succeeded.
	OK bool `json:"ok"`

	// Error carries the failure reason when OK is false.
	Error string `json:"error,omitempty"`

	// Status is present for status and toggle replies.
	Status *Status `json:"status,omitempty"`

	// History is present for history replies.
	History []HistoryEntry `json:"history,omitempty"`
}

// Status describes the daemon's current state.
type Status struct {
	// Mode is the active activation strategy.
	Mode string `json:"mode"`

	// Recording reports whether a dictation session is live.
	Recording bool `json:"recording"`

	// Source describes the input source in use.
	Source string `json:"source"`

	// UptimeSeconds is how long the daemon has been running.
	UptimeSeconds int64 `json:"uptime_seconds"`

	// Transcriptions is the total history row count.
	Transcriptions int64 `json:"transcriptions"`
}

// HistoryEntry is one past transcription.
type HistoryEntry struct {
	ID         int64  `json:"id"`
	CreatedNs  int64  `json:"created_ns"`
	Mode       string `json:"mode"`
	Model      string `json:"model"`
	DurationMs int64  `json:"duration_ms"`
	Text       string `json:"text"`
}

// errorResponse builds a failed Response.
func errorResponse(err error) Response {
	return Response{OK: false, Error: err.Error()}
}

// encode marshals a value to a single JSON line.
func encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
