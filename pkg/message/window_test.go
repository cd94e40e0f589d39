package message

import (
	"strings"
	"testing"
)

func TestPagedAppend(t *testing.T) {
	p := NewPaged(80, 3)

	if !p.Empty() {
		t.Error("new window should be empty")
	}
	p.ShowMessage("You take Key.")
	p.ShowMessage("The lock clicks.")

	if got := p.View(); got != "You take Key. The lock clicks." {
		t.Errorf("View = %q, want space-joined messages", got)
	}
	if p.HasMore() {
		t.Error("short text should fit one page")
	}

	p.Clear()
	if !p.Empty() || p.View() != "" {
		t.Error("Clear should empty the window")
	}
}

func TestPagedPaging(t *testing.T) {
	p := NewPaged(10, 2)
	p.ShowMessage("one two three four five six seven eight")

	if !p.HasMore() {
		t.Fatal("long text should page")
	}

	first := p.View()
	p.NextPage()
	second := p.View()
	if first == second {
		t.Error("NextPage should advance to different text")
	}
	if strings.Contains(first, "seven") {
		t.Errorf("first page shows late text: %q", first)
	}

	for i := 0; p.HasMore() && i < 10; i++ {
		p.NextPage()
	}
	if p.HasMore() {
		t.Error("paging should terminate")
	}
	// NextPage past the end is a no-op
	last := p.View()
	p.NextPage()
	if p.View() != last {
		t.Error("NextPage past the last page should not change the view")
	}
}

func TestPagedAppendWhilePaging(t *testing.T) {
	p := NewPaged(10, 1)
	p.ShowMessage("aaa bbb")
	p.ShowMessage("ccc ddd")

	// appended text extends the page list without resetting position
	if !p.HasMore() {
		t.Fatal("expected pending pages")
	}
	if got := p.View(); got != "aaa bbb" {
		t.Errorf("first page = %q, want %q", got, "aaa bbb")
	}
	p.NextPage()
	if got := p.View(); got != "ccc ddd" {
		t.Errorf("second page = %q, want %q", got, "ccc ddd")
	}
}

func TestPagedAllCaps(t *testing.T) {
	p := NewPaged(80, 3)
	p.SetAllCaps(true)
	p.ShowMessage("quiet")
	if got := p.View(); got != "QUIET" {
		t.Errorf("View = %q, want upper-cased text", got)
	}
}

func TestPagedEmptyMessageIgnored(t *testing.T) {
	p := NewPaged(80, 3)
	p.ShowMessage("")
	if !p.Empty() {
		t.Error("blank message should not dirty the window")
	}
}
