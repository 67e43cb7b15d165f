package auralis

import "sync"

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Text grows in place while the turn is
// live: assistant entries accumulate streaming deltas, and a pending user
// entry is replaced wholesale once the backend confirms the utterance.
type Message struct {
	Role Role
	Text string

	// Pending marks an optimistic placeholder created at capture start,
	// before the backend has transcribed the utterance. Matching on this
	// tag instead of the placeholder text keeps reconciliation correct
	// even when a user literally types the placeholder string.
	Pending bool
}

// transcript reconstructs the ordered message list from inbound events. It
// only ever mutates the tail: entries are never deleted, reordered, or
// merged across non-adjacent positions.
type transcript struct {
	mu      sync.Mutex
	entries []Message
}

// AppendPlaceholder inserts the optimistic pending user entry created at
// capture start.
func (t *transcript) AppendPlaceholder(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Message{Role: RoleUser, Text: text, Pending: true})
}

// ApplyUserMessage merges the backend's authoritative user utterance. A
// pending tail entry is resolved in place; otherwise a new user entry is
// appended.
func (t *transcript) ApplyUserMessage(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.entries); n > 0 {
		last := &t.entries[n-1]
		if last.Role == RoleUser && last.Pending {
			last.Text = content
			last.Pending = false
			return
		}
	}
	t.entries = append(t.entries, Message{Role: RoleUser, Text: content})
}

// ApplyTextUpdate merges one streaming assistant delta. Deltas accumulate on
// an assistant tail entry; any other tail starts a new assistant turn.
func (t *transcript) ApplyTextUpdate(delta string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.entries); n > 0 {
		last := &t.entries[n-1]
		if last.Role == RoleAssistant {
			last.Text += delta
			return
		}
	}
	t.entries = append(t.entries, Message{Role: RoleAssistant, Text: delta})
}

// Messages returns a snapshot of the transcript in conversation order.
func (t *transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Message(nil), t.entries...)
}

// Len returns the number of transcript entries.
func (t *transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
