// Package tui is a minimal terminal front-end over the emitter: an
// on-screen key grid plus a trackpad region, driven by tcell keyboard and
// mouse events. It exists to prove that EmitterFace is a sufficient
// boundary, not to be a full keyboard-and-mouse visualizer.
package tui

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/kelexine/hid-gadget-module/ledstate"
)

// EmitterFace is the subset of *emitter.Emitter the TUI depends on
// (spec.md §4.10). The TUI never assumes the emitter preserves modifier
// latches across calls; it keeps its own sticky-modifier state instead.
type EmitterFace interface {
	TypeSequence(modifiers byte, sequence string, hold bool) error
	PointerMove(dx, dy int) error
	PointerClick(button byte) error
	PointerPress(button byte) error
	PointerRelease() error
	SendConsumerTap(name string) error
}

// Button bitmasks, mirrored from the emitter package so this file has no
// import-cycle dependency on it beyond the EmitterFace interface.
const (
	buttonLeft   byte = 0x01
	buttonRight  byte = 0x02
	buttonMiddle byte = 0x04
)

// keyRow is one row of the on-screen key grid.
type keyRow struct {
	y    int
	keys []gridKey
}

type gridKey struct {
	label string // on-screen glyph
	send  string // name passed to TypeSequence's sequence argument
	x, w  int
}

// modifierToggle is one sticky-modifier key in the grid.
type modifierToggle struct {
	name string
	bit  byte
}

var modifierToggles = []modifierToggle{
	{"CTRL", 0x01},
	{"SHIFT", 0x02},
	{"ALT", 0x04},
	{"GUI", 0x08},
}

// App holds the TUI's own state: sticky modifiers and the last rendered
// frame's key layout, so mouse clicks can be mapped back to key presses.
type App struct {
	em     EmitterFace
	leds   *ledstate.Reader
	log    *slog.Logger
	screen tcell.Screen

	stickyMods byte
	rows       []keyRow
	trackpad   struct{ x0, y0, x1, y1 int }
	lastMouseX int
	lastMouseY int
	haveMouse  bool
}

// Run drives the TUI event loop until the user quits (Esc or Ctrl-C).
func Run(em EmitterFace, leds *ledstate.Reader, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	a := &App{em: em, leds: leds, log: logger, screen: screen}
	a.layout()
	a.draw()

	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			a.layout()
			a.draw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			a.handleKey(ev)
			a.draw()
		case *tcell.EventMouse:
			a.handleMouse(ev)
			a.draw()
		}
	}
}

func (a *App) layout() {
	w, h := a.screen.Size()
	rows := [][]string{
		{"ESC", "F1", "F2", "F3", "F4"},
		{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"},
		{"Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P"},
		{"A", "S", "D", "F", "G", "H", "J", "K", "L", "ENTER"},
		{"Z", "X", "C", "V", "B", "N", "M"},
	}
	a.rows = a.rows[:0]
	for i, labels := range rows {
		y := i + 1
		x := 1
		row := keyRow{y: y}
		for _, lbl := range labels {
			kw := len(lbl) + 2
			row.keys = append(row.keys, gridKey{label: lbl, send: lbl, x: x, w: kw})
			x += kw + 1
		}
		a.rows = append(a.rows, row)
	}
	tpTop := len(rows) + 3
	if tpTop >= h-3 {
		tpTop = h - 4
	}
	a.trackpad.x0, a.trackpad.y0 = 1, tpTop
	a.trackpad.x1, a.trackpad.y1 = w-2, h-2
}

func (a *App) draw() {
	a.screen.Clear()
	style := tcell.StyleDefault
	active := tcell.StyleDefault.Reverse(true)

	a.drawModifierBar()

	for _, row := range a.rows {
		for _, k := range row.keys {
			for i, r := range k.label {
				a.screen.SetContent(k.x+i, row.y, r, nil, style)
			}
		}
	}

	for x := a.trackpad.x0; x <= a.trackpad.x1; x++ {
		a.screen.SetContent(x, a.trackpad.y0, tcell.RuneHLine, nil, style)
		a.screen.SetContent(x, a.trackpad.y1, tcell.RuneHLine, nil, style)
	}
	for y := a.trackpad.y0; y <= a.trackpad.y1; y++ {
		a.screen.SetContent(a.trackpad.x0, y, tcell.RuneVLine, nil, style)
		a.screen.SetContent(a.trackpad.x1, y, tcell.RuneVLine, nil, style)
	}
	if a.haveMouse {
		a.screen.SetContent(a.lastMouseX, a.lastMouseY, 'o', nil, active)
	}

	a.screen.Show()
}

func (a *App) drawModifierBar() {
	x := 1
	y := 0
	for _, m := range modifierToggles {
		st := tcell.StyleDefault
		if a.stickyMods&m.bit != 0 {
			st = st.Reverse(true)
		}
		label := "[" + m.name + "]"
		for i, r := range label {
			a.screen.SetContent(x+i, y, r, nil, st)
		}
		x += len(label) + 1
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyRune {
		a.sendKey(string(ev.Rune()))
		return
	}
	switch ev.Key() {
	case tcell.KeyEnter:
		a.sendKey("ENTER")
	case tcell.KeyTab:
		a.sendKey("TAB")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.sendKey("BACKSPACE")
	}
}

// sendKey types sequence through the emitter with the current sticky
// modifiers, then clears them (a sticky modifier applies to exactly one
// subsequent key, matching how physical modifier latches are usually
// drained on a hardware macro pad).
func (a *App) sendKey(sequence string) {
	mods := a.stickyMods
	a.stickyMods = 0
	if err := a.em.TypeSequence(mods, sequence, false); err != nil {
		a.log.Warn("tui: type_sequence failed", "sequence", sequence, "error", err)
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	a.lastMouseX, a.lastMouseY = x, y
	a.haveMouse = true

	if y == 0 {
		a.handleModifierClick(x, ev.Buttons())
		return
	}
	for _, row := range a.rows {
		if row.y != y {
			continue
		}
		for _, k := range row.keys {
			if x >= k.x && x < k.x+k.w && ev.Buttons()&tcell.Button1 != 0 {
				a.sendKey(k.send)
				return
			}
		}
	}
	if x >= a.trackpad.x0 && x <= a.trackpad.x1 && y >= a.trackpad.y0 && y <= a.trackpad.y1 {
		a.handleTrackpad(ev)
	}
}

func (a *App) handleModifierClick(x int, buttons tcell.ButtonMask) {
	if buttons&tcell.Button1 == 0 {
		return
	}
	cx := 1
	for _, m := range modifierToggles {
		label := "[" + m.name + "]"
		if x >= cx && x < cx+len(label) {
			a.stickyMods ^= m.bit
			return
		}
		cx += len(label) + 1
	}
}

func (a *App) handleTrackpad(ev *tcell.EventMouse) {
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		if err := a.em.PointerPress(buttonLeft); err != nil {
			a.log.Warn("tui: pointer_press failed", "error", err)
		}
	case ev.Buttons()&tcell.Button2 != 0:
		if err := a.em.PointerClick(buttonMiddle); err != nil {
			a.log.Warn("tui: pointer_click failed", "error", err)
		}
	case ev.Buttons()&tcell.Button3 != 0:
		if err := a.em.PointerClick(buttonRight); err != nil {
			a.log.Warn("tui: pointer_click failed", "error", err)
		}
	case ev.Buttons() == tcell.ButtonNone:
		if err := a.em.PointerRelease(); err != nil {
			a.log.Warn("tui: pointer_release failed", "error", err)
		}
	}
}
