package client

import "vista/internal/summary"

// maxHistoryDisplay bounds the history list in the sidebar.
const maxHistoryDisplay = 5

// State is the immutable view-model behind the dashboard. Network
// callbacks derive a new State and hand it to the renderer instead of
// poking widgets directly, so display logic is decoupled from transport
// timing.
type State struct {
	User    *LoginResult
	Summary *summary.Summary
	History []HistoryEntry
	Status  string
}

// WithStatus returns a copy carrying an inline status message.
func (s State) WithStatus(msg string) State {
	s.Status = msg
	return s
}

// WithSummary returns a copy showing freshly computed metrics.
func (s State) WithSummary(sum *summary.Summary) State {
	s.Summary = sum
	return s
}

// WithHistory returns a copy with the history list, truncated to the
// display bound. Entries arrive newest first from the server.
func (s State) WithHistory(entries []HistoryEntry) State {
	if len(entries) > maxHistoryDisplay {
		entries = entries[:maxHistoryDisplay]
	}
	s.History = entries
	return s
}

// LoggedIn reports whether the session holds an authenticated user.
func (s State) LoggedIn() bool {
	return s.User != nil && s.User.Token != ""
}
