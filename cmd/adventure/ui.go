package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stagehand-games/stagehand/pkg/geom"
	"github.com/stagehand-games/stagehand/pkg/message"
	"github.com/stagehand-games/stagehand/pkg/scene"
	"github.com/stagehand-games/stagehand/pkg/session"
)

const (
	messageWidth = 76
	messageLines = 3

	tickRate    = time.Second / 30
	saveTimeout = 3 * time.Second
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	moreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	upperCaser = cases.Upper(language.English)
)

type tickMsg time.Time

// UI is the BubbleTea model that renders a session and feeds it pointer
// input. Terminal cells map linearly onto the scene's layout space.
type UI struct {
	sess    *session.Session
	window  *message.Paged
	history *transcript
	layout  scene.Layout
	log     *slog.Logger

	width  int
	height int
	ready  bool

	vp      viewport.Model
	showLog bool

	pointer session.PointerInput
	last    time.Time

	status string
}

// NewUI builds the model. The session must already be started.
func NewUI(sess *session.Session, window *message.Paged, history *transcript, layout scene.Layout, log *slog.Logger) *UI {
	return &UI{
		sess:    sess,
		window:  window,
		history: history,
		layout:  layout,
		log:     log,
		last:    time.Now(),
	}
}

func (u *UI) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (u *UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		u.width = msg.Width
		u.height = msg.Height
		u.window.Resize(min(msg.Width-4, messageWidth), messageLines)
		u.vp = viewport.New(msg.Width-2, u.canvasHeight())
		u.vp.SetContent(u.history.Text())
		u.ready = true

	case tea.KeyMsg:
		return u.handleKey(msg)

	case tea.MouseMsg:
		u.handleMouse(msg)

	case tickMsg:
		now := time.Time(msg)
		dt := now.Sub(u.last).Seconds()
		u.last = now
		u.sess.Update(dt, u.pointer)
		u.pointer.LeftPressed = false
		u.pointer.RightPressed = false
		u.pointer.MiddlePressed = false
		u.pointer.LeftReleased = false
		return u, tick()
	}
	return u, nil
}

func (u *UI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if u.showLog {
		switch msg.String() {
		case "ctrl+c", "q":
			return u, tea.Quit
		case "t", "esc":
			u.showLog = false
		default:
			var cmd tea.Cmd
			u.vp, cmd = u.vp.Update(msg)
			return u, cmd
		}
		return u, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return u, tea.Quit

	case "t":
		u.vp.SetContent(u.history.Text())
		u.vp.GotoBottom()
		u.showLog = true

	case " ":
		if u.window.HasMore() {
			u.window.NextPage()
		}

	case "b":
		u.sess.GoBack()

	case "v":
		u.sess.SetVerbose(!u.sess.Verbose())
		u.status = fmt.Sprintf("verbose %v", u.sess.Verbose())

	case "f6":
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := u.sess.SaveGame(ctx); err != nil {
			u.status = "save failed"
		}

	case "f9":
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := u.sess.LoadGame(ctx); err != nil {
			u.status = "load failed"
		}

	case "f12":
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := u.sess.TempLoad(ctx); err != nil {
			u.status = "rewind failed"
		}

	case "c":
		if err := clipboard.WriteAll(u.history.Text()); err != nil {
			u.log.Warn("clipboard copy failed", "error", err)
			u.status = "copy failed"
		} else {
			u.status = "copied"
		}
	}
	return u, nil
}

func (u *UI) handleMouse(msg tea.MouseMsg) {
	if u.showLog {
		return
	}
	u.pointer.Pos = u.toWorld(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			u.pointer.LeftPressed = true
		case tea.MouseButtonRight:
			u.pointer.RightPressed = true
		case tea.MouseButtonMiddle:
			u.pointer.MiddlePressed = true
		}
	case tea.MouseActionRelease:
		if msg.Button == tea.MouseButtonLeft {
			u.pointer.LeftReleased = true
		}
	}
}

// worldBounds is the union of the layout rects: the part of scene space
// the terminal shows.
func (u *UI) worldBounds() (minX, minY, maxX, maxY float64) {
	rects := []geom.Rect{u.layout.RoomRect, u.layout.InventoryRect}
	first := true
	for _, r := range rects {
		if r.IsZero() {
			continue
		}
		lo := r.Center.Sub(geom.Vec2{X: r.Size.X / 2, Y: r.Size.Y / 2})
		hi := r.Center.Add(geom.Vec2{X: r.Size.X / 2, Y: r.Size.Y / 2})
		if first || lo.X < minX {
			minX = lo.X
		}
		if first || lo.Y < minY {
			minY = lo.Y
		}
		if first || hi.X > maxX {
			maxX = hi.X
		}
		if first || hi.Y > maxY {
			maxY = hi.Y
		}
		first = false
	}
	if first {
		return 0, 0, 1, 1
	}
	return minX, minY, maxX, maxY
}

func (u *UI) canvasHeight() int {
	// bottom rows hold the message window and status line
	h := u.height - messageLines - 3
	if h < 4 {
		h = 4
	}
	return h
}

// toWorld maps a terminal cell to scene coordinates. Terminal rows grow
// downward; scene Y grows upward.
func (u *UI) toWorld(x, y int) geom.Vec2 {
	minX, minY, maxX, maxY := u.worldBounds()
	w := float64(max(u.width, 1))
	h := float64(max(u.canvasHeight(), 1))
	return geom.Vec2{
		X: minX + (float64(x)+0.5)/w*(maxX-minX),
		Y: maxY - (float64(y)+0.5)/h*(maxY-minY),
	}
}

// toCell maps scene coordinates to a terminal cell.
func (u *UI) toCell(p geom.Vec2) (int, int) {
	minX, minY, maxX, maxY := u.worldBounds()
	w := float64(max(u.width, 1))
	h := float64(max(u.canvasHeight(), 1))
	x := int((p.X - minX) / (maxX - minX) * w)
	y := int((maxY - p.Y) / (maxY - minY) * h)
	return x, y
}

func (u *UI) View() string {
	if !u.ready {
		return "loading..."
	}

	var b strings.Builder
	if u.showLog {
		b.WriteString(u.vp.View())
	} else {
		b.WriteString(u.renderCanvas())
	}
	b.WriteString("\n")
	b.WriteString(u.renderMessages())
	b.WriteString("\n")
	b.WriteString(u.renderStatus())
	return b.String()
}

// renderCanvas paints every visible item label onto a cell grid, lowest
// sorting order first so higher items overdraw.
func (u *UI) renderCanvas() string {
	height := u.canvasHeight()
	grid := make([][]string, height)
	for i := range grid {
		grid[i] = make([]string, u.width)
	}

	items := u.visibleItems()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortingOrder < items[j].SortingOrder
	})
	for _, it := range items {
		label := "[" + it.Name + "]"
		style := itemStyle
		if u.sess.Selected() == it {
			style = selectedStyle
		}
		x, y := u.toCell(it.Pos)
		u.paint(grid, x-len(label)/2, y, label, style)
	}

	if c := u.sess.OpenedContainer(); c != nil {
		label := upperCaser.String(c.Name)
		x, y := u.toCell(u.layout.InventoryRect.Center)
		u.paint(grid, x-len(label)/2, y, titleStyle.Render(label), lipgloss.NewStyle())
	}

	rows := make([]string, height)
	for i, row := range grid {
		var sb strings.Builder
		for _, cell := range row {
			if cell == "" {
				sb.WriteString(" ")
			} else {
				sb.WriteString(cell)
			}
		}
		rows[i] = strings.TrimRight(sb.String(), " ")
	}
	return strings.Join(rows, "\n")
}

func (u *UI) paint(grid [][]string, x, y int, text string, style lipgloss.Style) {
	if y < 0 || y >= len(grid) {
		return
	}
	for i, r := range text {
		cx := x + i
		if cx < 0 || cx >= len(grid[y]) {
			continue
		}
		grid[y][cx] = style.Render(string(r))
	}
}

func (u *UI) visibleItems() []*scene.Item {
	var out []*scene.Item
	appendRoom := func(r *scene.Room) {
		if r == nil {
			return
		}
		for _, it := range r.Items() {
			if it.Active {
				out = append(out, it)
			}
		}
	}
	appendRoom(u.sess.CurrentRoom())
	appendRoom(u.sess.World().Inventory)
	if u.sess.OpenedContainer() != nil {
		appendRoom(u.sess.World().ContainerDisplay)
	}
	return out
}

func (u *UI) renderMessages() string {
	text := u.window.View()
	if u.window.HasMore() {
		text += "\n" + moreStyle.Render("(more...)")
	}
	return frameStyle.Width(min(u.width-2, messageWidth+2)).Render(messageStyle.Render(text))
}

func (u *UI) renderStatus() string {
	parts := []string{
		fmt.Sprintf("turn %d", u.sess.TurnCount()),
	}
	if u.sess.CanGoBack() {
		parts = append(parts, "b:back")
	}
	if u.sess.IsGameOver() {
		parts = append(parts, titleStyle.Render("THE END"))
	}
	if u.status != "" {
		parts = append(parts, u.status)
	}
	parts = append(parts, "t:log f6:save f9:load f12:rewind v:verbose c:copy q:quit")
	return statusStyle.Render(strings.Join(parts, "  "))
}
