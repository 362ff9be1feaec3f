// Package terminal hosts a form in a terminal using tcell.
//
// All field edits run on the event loop. Deferred selection reapplication
// and configuration reloads are posted to the loop as interrupt events.
package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/inputmask/internal/config"
	"github.com/dshills/inputmask/internal/form"
	"github.com/dshills/inputmask/internal/mask"
	"github.com/dshills/inputmask/internal/schedule"
)

// quit is posted to stop the event loop.
type quit struct{}

// NewScreen creates and initializes a terminal screen with bracketed
// paste and focus reporting enabled.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnablePaste()
	screen.EnableFocus()
	return screen, nil
}

// NewScheduler returns a scheduler that runs callbacks on the event loop
// of an App driving screen.
func NewScheduler(screen tcell.Screen) schedule.Scheduler {
	return schedule.Poster{Post: func(run func()) error {
		return screen.PostEvent(tcell.NewEventInterrupt(run))
	}}
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// App drives a form from terminal events.
type App struct {
	screen tcell.Screen
	form   *form.Form
	theme  Theme
	logger *zap.Logger

	status  string
	pasting bool
	paste   []rune
}

// New creates an App. The screen must already be initialized.
func New(screen tcell.Screen, f *form.Form, theme Theme, opts ...Option) *App {
	a := &App{
		screen: screen,
		form:   f,
		theme:  theme,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run focuses the first field and processes events until the user quits,
// ctx is done, or the screen is finalized.
func (a *App) Run(ctx context.Context) error {
	if a.form.Focused() == nil {
		if _, err := a.form.FocusNext(); err != nil && !errors.Is(err, form.ErrEmptyForm) {
			return err
		}
	}

	stop := context.AfterFunc(ctx, func() {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(quit{}))
	})
	defer stop()

	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.handle(ev) {
			return nil
		}
		a.draw()
	}
}

// Post runs fn on the event loop.
func (a *App) Post(fn func()) error {
	return a.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// Reload applies a reloaded form definition on the event loop.
func (a *App) Reload(doc *config.Document) error {
	return a.Post(func() { a.apply(doc) })
}

// Notify shows msg in the status line.
func (a *App) Notify(msg string) error {
	return a.Post(func() { a.status = msg })
}

func (a *App) apply(doc *config.Document) {
	theme, err := NewTheme(doc.UI.Theme)
	if err == nil {
		err = a.form.Apply(doc)
	}
	if err != nil {
		a.logger.Warn("reload rejected", zap.Error(err))
		a.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	a.theme = theme
	a.status = "reloaded " + doc.Path
	a.logger.Debug("reload applied", zap.String("path", doc.Path))
}

// handle processes one event. It returns false when the loop should stop.
func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventPaste:
		if ev.Start() {
			a.pasting = true
			a.paste = a.paste[:0]
			return true
		}
		a.pasting = false
		if e := a.form.Focused(); e != nil && len(a.paste) > 0 {
			e.Surface.Paste(string(a.paste))
		}
	case *tcell.EventFocus:
		if !ev.Focused {
			a.form.Blur()
		}
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case quit:
			return false
		case func():
			data()
		}
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if a.pasting {
		switch ev.Key() {
		case tcell.KeyRune:
			a.paste = append(a.paste, ev.Rune())
		case tcell.KeyEnter:
			a.paste = append(a.paste, '\n')
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return false
	case tcell.KeyTab, tcell.KeyEnter:
		a.focus(a.form.FocusNext)
		return true
	case tcell.KeyBacktab:
		a.focus(a.form.FocusPrev)
		return true
	}

	e := a.form.Focused()
	if e == nil {
		return true
	}
	a.status = ""

	var st mask.State
	switch ev.Key() {
	case tcell.KeyRune:
		st = e.Surface.Type(string(ev.Rune()))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		st = e.Surface.Backspace()
	case tcell.KeyDelete:
		st = e.Surface.Delete()
	case tcell.KeyLeft:
		st = e.Surface.MoveLeft()
	case tcell.KeyRight:
		st = e.Surface.MoveRight()
	case tcell.KeyHome:
		st = e.Surface.Home()
	case tcell.KeyEnd:
		st = e.Surface.End()
	case tcell.KeyCtrlA:
		st = e.Surface.SelectAll()
	default:
		return true
	}
	a.logger.Debug("key handled",
		zap.String("field", e.Spec.Name),
		zap.String("key", ev.Name()),
		zap.String("value", st.Value),
		zap.Stringer("selection", st.Selection),
	)
	return true
}

func (a *App) focus(step func() (*form.Entry, error)) {
	if _, err := step(); err != nil {
		a.status = err.Error()
	}
}
