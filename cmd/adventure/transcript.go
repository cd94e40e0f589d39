package main

import (
	"strings"

	"github.com/stagehand-games/stagehand/pkg/message"
)

// transcript records everything shown through the window so the log panel
// can display the full session history, not just the current page.
type transcript struct {
	inner *message.Paged
	lines []string
}

var _ message.Window = (*transcript)(nil)

func newTranscript(inner *message.Paged) *transcript {
	return &transcript{inner: inner}
}

func (t *transcript) ShowMessage(text string) {
	if text != "" {
		t.lines = append(t.lines, text)
	}
	t.inner.ShowMessage(text)
}

func (t *transcript) Clear()        { t.inner.Clear() }
func (t *transcript) HasMore() bool { return t.inner.HasMore() }
func (t *transcript) NextPage()     { t.inner.NextPage() }

// Text returns the history, one shown message per line.
func (t *transcript) Text() string {
	return strings.Join(t.lines, "\n")
}
