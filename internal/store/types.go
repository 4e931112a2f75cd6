package store

// Transcription is one completed dictation, as persisted in history.
type Transcription struct {
	// ID is the database row ID.
	ID int64

	// CreatedNs is the completion time in Unix nanoseconds.
	CreatedNs int64

	// Mode is the activation strategy that started the session.
	Mode string

	// Model is the server model tier used.
	Model string

	// DurationMs is the capture length in milliseconds.
	DurationMs int64

	// RawText is the unmodified recognition output.
	RawText string

	// Text is the delivered text after dictionary replacements.
	Text string

	// AudioPath is the retained recording, empty when audio was discarded.
	AudioPath string
}

// DictionaryRow is a persisted replacement rule.
type DictionaryRow struct {
	ID          int64
	Scope       string
	Pattern     string
	Replacement string
	CreatedNs   int64
}
