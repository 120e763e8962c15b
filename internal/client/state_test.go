package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vista/internal/summary"
)

func TestStateTransitionsAreCopies(t *testing.T) {
	base := State{User: &LoginResult{Token: "tok", Username: "operator"}}

	withStatus := base.WithStatus("working")
	assert.Empty(t, base.Status)
	assert.Equal(t, "working", withStatus.Status)

	sum := &summary.Summary{TotalCount: 3}
	withSummary := withStatus.WithSummary(sum)
	assert.Nil(t, withStatus.Summary)
	assert.Equal(t, 3, withSummary.Summary.TotalCount)
}

func TestWithHistoryTruncatesToDisplayBound(t *testing.T) {
	entries := make([]HistoryEntry, 8)
	for i := range entries {
		entries[i] = HistoryEntry{ID: uint(i + 1), Date: time.Now()}
	}

	state := State{}.WithHistory(entries)
	assert.Len(t, state.History, maxHistoryDisplay)
	assert.EqualValues(t, 1, state.History[0].ID)
}

func TestLoggedIn(t *testing.T) {
	assert.False(t, State{}.LoggedIn())
	assert.False(t, State{User: &LoginResult{}}.LoggedIn())
	assert.True(t, State{User: &LoginResult{Token: "tok"}}.LoggedIn())
}
