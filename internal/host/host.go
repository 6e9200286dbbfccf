// Package host implements the editor environment against a live tcell
// screen for the demo binary. It owns the single event loop: input, timer
// callbacks, and redraws all run on it, matching the delivery guarantees
// the subsystem assumes.
package host

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/zenmode/internal/app"
	"github.com/dshills/zenmode/internal/editor"
	"github.com/dshills/zenmode/internal/schedule"
)

// pane is one vertical split with its own per-view options.
type pane struct {
	id   editor.ViewID
	opts map[string]any
}

// timerEvent carries a fired timer callback onto the event loop.
type timerEvent struct {
	tcell.EventTime
	fn func()
}

// Host drives a tcell screen and implements editor.Environment.
type Host struct {
	mu sync.Mutex

	screen tcell.Screen
	app    *app.Application

	global map[string]any
	panes  []*pane

	searchPattern string
	searchActive  bool
	searchCurrent int
	searchTotal   int

	recordRegister string

	quit bool
}

// New creates a host with an initialized tcell screen and one open pane.
func New() (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newWithScreen(screen)
}

// newWithScreen initializes the given screen. Split out so tests can drive
// the host against a tcell simulation screen.
func newWithScreen(screen tcell.Screen) (*Host, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableFocus()

	h := &Host{
		screen: screen,
		global: map[string]any{
			"number": true, "relativenumber": false, "cursorline": true,
			"signcolumn": "yes", "colorcolumn": "100", "foldcolumn": 1,
			"list": true, "laststatus": 2, "showtabline": 2, "ruler": true,
			"showcmd": true, "syntax": "on",
		},
	}
	h.openPane()
	return h, nil
}

// Attach binds the wired application to the host. Must run before Run.
func (h *Host) Attach(a *app.Application) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.app = a
}

// Close releases the screen.
func (h *Host) Close() {
	h.screen.Fini()
}

// Run drives the event loop until quit. Hook and timer callbacks run here,
// never concurrently with each other.
func (h *Host) Run() {
	h.Redraw(schedule.Set(schedule.KindFull))

	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *timerEvent:
			ev.fn()
		case *tcell.EventResize:
			h.screen.Sync()
			h.Redraw(schedule.Set(schedule.KindFull))
		case *tcell.EventFocus:
			if !ev.Focused {
				h.app.Hooks().Fire(editor.EventFocusLost)
			}
		case *tcell.EventKey:
			if h.handleKey(ev) {
				return
			}
		}

		h.mu.Lock()
		done := h.quit
		h.mu.Unlock()
		if done {
			return
		}
	}
}

// handleKey maps demo keys onto subsystem events. Returns true on quit.
func (h *Host) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyCtrlC:
		h.app.Hooks().Fire(editor.EventExiting)
		return true
	case ev.Key() == tcell.KeyEscape:
		h.clearSearch()
		h.app.Hooks().Fire(editor.EventSearchCleared)
	case ev.Rune() == 'z':
		h.app.Toggler().Toggle()
	case ev.Rune() == 'q':
		h.toggleRecording()
	case ev.Rune() == '/':
		h.startSearch()
		h.app.Hooks().Fire(editor.EventSearchChanged)
	case ev.Rune() == 'n':
		h.nextMatch()
		h.app.Hooks().Fire(editor.EventCursorMoved)
	case ev.Rune() == 'o':
		h.openPane()
		h.app.Hooks().Fire(editor.EventViewCreated)
		h.Redraw(schedule.Set(schedule.KindFull))
	case ev.Rune() == 'c':
		h.closePane()
		h.Redraw(schedule.Set(schedule.KindFull))
	default:
		h.app.Hooks().Fire(editor.EventCursorMoved)
	}
	return false
}

// toggleRecording flips the simulated macro recording state and fires the
// matching event.
func (h *Host) toggleRecording() {
	h.mu.Lock()
	recording := h.recordRegister != ""
	if recording {
		h.recordRegister = ""
	} else {
		h.recordRegister = "q"
	}
	h.mu.Unlock()

	if recording {
		h.app.Hooks().Fire(editor.EventRecordingLeave)
	} else {
		h.app.Hooks().Fire(editor.EventRecordingEnter)
	}
}

// startSearch installs a simulated search pattern with a few matches.
func (h *Host) startSearch() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.searchPattern = "zen"
	h.searchActive = true
	h.searchCurrent = 1
	h.searchTotal = 7
}

// nextMatch advances the simulated match position.
func (h *Host) nextMatch() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.searchActive {
		return
	}
	h.searchCurrent++
	if h.searchCurrent > h.searchTotal {
		h.searchCurrent = 1
	}
}

// clearSearch drops the simulated search.
func (h *Host) clearSearch() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.searchActive = false
	h.searchPattern = ""
	h.searchCurrent = 0
	h.searchTotal = 0
}

// openPane opens a new vertical split.
func (h *Host) openPane() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.panes = append(h.panes, &pane{
		id:   editor.NewViewID(),
		opts: make(map[string]any),
	})
}

// closePane closes the last pane, keeping at least one open.
func (h *Host) closePane() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.panes) > 1 {
		h.panes = h.panes[:len(h.panes)-1]
	}
}

// Global returns the global value of an option.
func (h *Host) Global(name string) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, ok := h.global[name]
	if !ok {
		return nil, editor.ErrUnknownOption
	}
	return v, nil
}

// SetGlobal sets an option at global scope.
func (h *Host) SetGlobal(name string, value any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.global[name] = value
	return nil
}

// SetView sets an option on one pane.
func (h *Host) SetView(view editor.ViewID, name string, value any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, p := range h.panes {
		if p.id == view {
			p.opts[name] = value
			return nil
		}
	}
	return editor.ErrViewNotFound
}

// Views returns the open panes in creation order.
func (h *Host) Views() []editor.ViewID {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]editor.ViewID, len(h.panes))
	for i, p := range h.panes {
		out[i] = p.id
	}
	return out
}

// Now returns the current time.
func (h *Host) Now() time.Time { return time.Now() }

// Post schedules fn to run on the event loop. This is how code running off
// the loop (timers, signal handlers) hands work back to it.
func (h *Host) Post(fn func()) {
	ev := &timerEvent{fn: fn}
	ev.SetEventNow()
	_ = h.screen.PostEvent(ev)
}

// Quit makes the event loop return after the event it is handling.
func (h *Host) Quit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quit = true
}

// AfterFunc arms a one-shot timer whose callback is posted back onto the
// event loop, preserving single-loop delivery.
func (h *Host) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() {
		h.Post(fn)
	})
	return t.Stop
}

// ActiveSearch returns the simulated search state.
func (h *Host) ActiveSearch() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.searchPattern, h.searchActive
}

// SearchCount returns the simulated match position and total.
func (h *Host) SearchCount(_ time.Duration) (int, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.searchCurrent, h.searchTotal, nil
}

// RecordingRegister returns the register being recorded into.
func (h *Host) RecordingRegister() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.recordRegister
}

// viewOption reads a pane option, falling back to global.
func (h *Host) viewOption(p *pane, name string) any {
	if v, ok := p.opts[name]; ok {
		return v
	}
	return h.global[name]
}

// redrawInfo carries application-derived strings into the draw pass.
// Computed before the host lock is taken: the statusline provider reads
// back through the host's search surface.
type redrawInfo struct {
	zenActive  bool
	searchInfo string
	macroInfo  string
}

// Redraw renders the requested regions. This is the scheduler's batched
// redraw sink; KindFull repaints everything.
func (h *Host) Redraw(kinds schedule.Set) {
	var info redrawInfo
	h.mu.Lock()
	a := h.app
	h.mu.Unlock()
	if a != nil {
		info.zenActive = a.Toggler().Active()
		info.searchInfo = a.StatusInfo().SearchInfo()
		info.macroInfo = a.StatusInfo().MacroInfo()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	full := kinds.Has(schedule.KindFull)
	if full {
		h.screen.Clear()
		h.drawPanes()
	}
	if full || kinds.Has(schedule.KindTabline) {
		h.drawTabline(info)
	}
	if full || kinds.Has(schedule.KindStatus) {
		h.drawStatusline(info)
	}
	h.screen.Show()
}

// drawTabline renders line 0 when showtabline is not 0.
func (h *Host) drawTabline(info redrawInfo) {
	width, _ := h.screen.Size()
	style := tcell.StyleDefault.Reverse(true)

	clearLine(h.screen, 0, width)
	if mode, _ := h.global["showtabline"].(int); mode == 0 {
		return
	}

	label := fmt.Sprintf(" %d pane(s)", len(h.panes))
	if info.zenActive {
		label += "  [zen]"
	}
	drawText(h.screen, 0, 0, style, label)
}

// drawStatusline renders the bottom line when laststatus is not 0.
func (h *Host) drawStatusline(info redrawInfo) {
	width, height := h.screen.Size()
	if height < 2 {
		return
	}
	style := tcell.StyleDefault.Reverse(true)

	clearLine(h.screen, height-1, width)
	if mode, _ := h.global["laststatus"].(int); mode == 0 {
		return
	}

	line := " NORMAL" + info.searchInfo
	if info.macroInfo != "" {
		line += "  " + info.macroInfo
	}
	drawText(h.screen, 0, height-1, style, line)
}

// drawPanes renders each pane's gutter and demo content.
func (h *Host) drawPanes() {
	width, height := h.screen.Size()
	if len(h.panes) == 0 || height < 3 {
		return
	}

	paneWidth := width / len(h.panes)
	for i, p := range h.panes {
		left := i * paneWidth
		h.drawPane(p, left, 1, paneWidth, height-2)
	}
}

// drawPane renders one pane region.
func (h *Host) drawPane(p *pane, left, top, width, height int) {
	style := tcell.StyleDefault
	gutter := 0
	showNumber, _ := h.viewOption(p, "number").(bool)
	if showNumber {
		gutter = 4
	}

	for row := 0; row < height; row++ {
		if showNumber {
			drawText(h.screen, left, top+row, style.Dim(true), fmt.Sprintf("%3d ", row+1))
		}
		text := "~"
		if row < 3 {
			text = "the quick brown fox jumps over the lazy dog"
		}
		if len(text) > width-gutter-1 && width > gutter+1 {
			text = text[:width-gutter-1]
		}
		drawText(h.screen, left+gutter, top+row, style, text)
	}
}

// drawText writes a string starting at (x, y).
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// clearLine blanks one screen row.
func clearLine(s tcell.Screen, y, width int) {
	for x := 0; x < width; x++ {
		s.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}
