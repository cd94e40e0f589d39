// Package message provides the engine's player-facing text surface: an
// append-only, space-joined sink with page-at-a-time display and a
// pending/drained signal the engine polls.
package message

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// Window is the collaborator interface the engine writes through.
type Window interface {
	// ShowMessage appends text to the current buffer, space-joined.
	ShowMessage(text string)
	// Clear empties the buffer and resets paging.
	Clear()
	// HasMore reports whether undisplayed pages remain.
	HasMore() bool
	// NextPage advances to the next page if one remains.
	NextPage()
}

// Paged is the standard Window: text wraps to a fixed width and displays a
// fixed number of lines per page.
type Paged struct {
	width   int
	lines   int
	allCaps bool

	buf  string
	page int
}

var _ Window = (*Paged)(nil)

// NewPaged creates a window wrapping at width columns with lines rows per
// page.
func NewPaged(width, lines int) *Paged {
	if width < 1 {
		width = 1
	}
	if lines < 1 {
		lines = 1
	}
	return &Paged{width: width, lines: lines}
}

// SetAllCaps switches the window to upper-case display.
func (p *Paged) SetAllCaps(v bool) {
	p.allCaps = v
}

// Resize changes the page geometry, keeping the buffer. Paging restarts from
// the first page.
func (p *Paged) Resize(width, lines int) {
	if width >= 1 {
		p.width = width
	}
	if lines >= 1 {
		p.lines = lines
	}
	p.page = 0
}

func (p *Paged) ShowMessage(text string) {
	if text == "" {
		return
	}
	if p.allCaps {
		text = strings.ToUpper(text)
	}
	if p.buf == "" {
		p.buf = text
		return
	}
	p.buf += " " + text
}

func (p *Paged) Clear() {
	p.buf = ""
	p.page = 0
}

func (p *Paged) HasMore() bool {
	return p.page < p.pageCount()-1
}

func (p *Paged) NextPage() {
	if p.HasMore() {
		p.page++
	}
}

// View returns the text of the current page.
func (p *Paged) View() string {
	pages := p.pages()
	if len(pages) == 0 || p.page >= len(pages) {
		return ""
	}
	return pages[p.page]
}

// Empty reports whether nothing has been shown since the last Clear.
func (p *Paged) Empty() bool {
	return p.buf == ""
}

func (p *Paged) pageCount() int {
	return len(p.pages())
}

func (p *Paged) pages() []string {
	if p.buf == "" {
		return nil
	}

	wrapped := wordwrap.String(p.buf, p.width)
	lines := strings.Split(wrapped, "\n")

	var pages []string
	for start := 0; start < len(lines); start += p.lines {
		end := start + p.lines
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, strings.Join(lines[start:end], "\n"))
	}
	return pages
}
