// Package dictionary applies user-defined text replacements to
// transcription results.
//
// Two scopes exist: user entries and global entries. User entries are
// applied first; a global entry is skipped when a user entry already
// covers the same pattern. Matching is case-insensitive and patterns are
// treated as literal text, not regular expressions.
package dictionary

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// UserEntryLimit caps the number of user-scope entries.
const UserEntryLimit = 100

// ErrLimitExceeded is returned when the user entry limit is reached.
var ErrLimitExceeded = errors.New("dictionary entry limit exceeded")

// ErrDuplicatePattern is returned when a pattern already exists in a scope.
var ErrDuplicatePattern = errors.New("dictionary pattern already exists")

// Scope identifies which dictionary an entry belongs to.
type Scope int

const (
	ScopeUser Scope = iota
	ScopeGlobal
)

func (s Scope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "user"
}

// Entry is a single replacement rule.
type Entry struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// Dictionary holds the replacement rules for both scopes.
type Dictionary struct {
	mu     sync.RWMutex
	user   []Entry
	global []Entry
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{}
}

// Add appends an entry to the given scope. Patterns are unique per scope,
// compared case-insensitively.
func (d *Dictionary) Add(scope Scope, e Entry) error {
	if e.Pattern == "" {
		return errors.New("dictionary pattern cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.entriesFor(scope)
	for _, existing := range *entries {
		if strings.EqualFold(existing.Pattern, e.Pattern) {
			return fmt.Errorf("%w: %q", ErrDuplicatePattern, e.Pattern)
		}
	}
	if scope == ScopeUser && len(*entries) >= UserEntryLimit {
		return fmt.Errorf("%w: limit is %d", ErrLimitExceeded, UserEntryLimit)
	}

	*entries = append(*entries, e)
	return nil
}

// Remove deletes the entry with the given pattern from the scope.
// Returns false when no entry matched.
func (d *Dictionary) Remove(scope Scope, pattern string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.entriesFor(scope)
	for i, e := range *entries {
		if strings.EqualFold(e.Pattern, pattern) {
			*entries = append((*entries)[:i], (*entries)[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a copy of the entries in the given scope.
func (d *Dictionary) Entries(scope Scope) []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	src := *d.entriesFor(scope)
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// Replace replaces all entries in the given scope.
func (d *Dictionary) Replace(scope Scope, entries []Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dst := d.entriesFor(scope)
	*dst = append((*dst)[:0], entries...)
}

// Len returns the total number of entries across both scopes.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.user) + len(d.global)
}

// Apply runs the replacement rules over text. User entries run first;
// global entries whose pattern a user entry already handled are skipped.
func (d *Dictionary) Apply(text string) string {
	if text == "" {
		return text
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	result := text
	applied := make(map[string]struct{}, len(d.user))

	for _, e := range d.user {
		result = replaceFold(result, e.Pattern, e.Replacement)
		applied[strings.ToLower(e.Pattern)] = struct{}{}
	}

	for _, e := range d.global {
		if _, covered := applied[strings.ToLower(e.Pattern)]; covered {
			continue
		}
		result = replaceFold(result, e.Pattern, e.Replacement)
	}

	return result
}

// entriesFor must be called with the lock held.
func (d *Dictionary) entriesFor(scope Scope) *[]Entry {
	if scope == ScopeGlobal {
		return &d.global
	}
	return &d.user
}

// replaceFold replaces every case-insensitive occurrence of pattern,
// treating the pattern as literal text.
func replaceFold(text, pattern, replacement string) string {
	if pattern == "" {
		return text
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(pattern))
	if err != nil {
		return text
	}
	// Replacement is literal; $ must not be expanded.
	return re.ReplaceAllStringFunc(text, func(string) string { return replacement })
}
