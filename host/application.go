// Package host runs a scene in a terminal. It owns the tcell screen and the
// frame loop: every frame lays the scene out, synchronizes its scrollbars and
// draws it. Dragging a thumb with the primary button scrolls its area, the
// wheel scrolls whatever is under the pointer and the keymap changes the UI
// scale.
//
// Terminal cells are treated as blocks of physical pixels, CellWidth by
// CellHeight. Several scrollbars may be bound to the same scroll area; the
// last one dragged or synchronized wins.
package host

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/scrollbar"
	"github.com/xqrs/scrollbar/help"
	"github.com/xqrs/scrollbar/keybind"
	"github.com/xqrs/scrollbar/layout"
	"github.com/xqrs/scrollbar/scene"
	"github.com/xqrs/scrollbar/wheel"
)

const (
	// The size of the queued updates channel.
	updatesQueueSize = 100

	// MinScale and MaxScale bound the UI scale.
	MinScale = 0.25
	MaxScale = 3.0

	// scaleStep is the relative change of one zoom key press.
	scaleStep = 0.1

	defaultFPS = 30
)

// queuedUpdate represented the execution of f queued by
// Application.QueueUpdate(). If "done" is not nil, it receives exactly one
// element after f has executed.
type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// Application shows a scene on a terminal screen until it is stopped.
//
//	sc, _ := scene.Default()
//	if err := host.NewApplication(sc).Run(); err != nil {
//	    panic(err)
//	}
type Application struct {
	sync.RWMutex

	// The application's screen. Apart from Run(), this variable should never be
	// set directly.
	screen tcell.Screen

	scene    *scene.Scene
	plugin   *scrollbar.Plugin
	engine   *layout.Engine
	renderer *Renderer
	keymap   keybind.Keymap
	help     *help.Help
	logger   *slog.Logger

	fps       int
	showHelp  bool
	swapAxes  tcell.ModMask
	title     string
	statusBar tcell.Style

	// Terminal size in cells, refreshed every frame.
	cols, rows int

	events chan tcell.Event

	// Functions queued from goroutines, used to serialize updates to the tree.
	updates chan queuedUpdate

	// Closed once Run has returned. Queued updates are dropped after that.
	done     chan struct{}
	doneOnce sync.Once

	dragTarget  scrollbar.Entity // The thumb captured by the primary button, if any.
	dragFrom    scrollbar.Vec2   // The last pointer position of the drag, in physical pixels.
	lastButtons tcell.ButtonMask // The last mouse button state.
}

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the logger used by the application and its scrollbars.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithScale sets the initial UI scale.
func WithScale(scale float64) Option {
	return func(a *Application) {
		a.engine.Scale = ClampScale(scale)
	}
}

// WithCellSize sets the physical size of a terminal cell in pixels.
func WithCellSize(width, height float64) Option {
	return func(a *Application) {
		if width > 0 && height > 0 {
			a.renderer.CellWidth, a.renderer.CellHeight = width, height
		}
	}
}

// WithFPS sets how many frames are drawn per second.
func WithFPS(fps int) Option {
	return func(a *Application) {
		if fps > 0 {
			a.fps = fps
		}
	}
}

// WithKeymap replaces the default key bindings.
func WithKeymap(keymap keybind.Keymap) Option {
	return func(a *Application) {
		a.keymap = keymap
	}
}

// WithSwapModifier sets the modifier that makes the wheel and drags use the
// other axis.
func WithSwapModifier(mod tcell.ModMask) Option {
	return func(a *Application) {
		a.swapAxes = mod
	}
}

// WithGlyphs sets the glyphs used to draw thumbs.
func WithGlyphs(glyphs GlyphSet) Option {
	return func(a *Application) {
		a.renderer.Glyphs = glyphs
	}
}

// WithHelp toggles the key help status line.
func WithHelp(show bool) Option {
	return func(a *Application) {
		a.showHelp = show
	}
}

// WithTitle sets the terminal title.
func WithTitle(title string) Option {
	return func(a *Application) {
		a.title = title
	}
}

// NewApplication returns an application showing sc.
func NewApplication(sc *scene.Scene, options ...Option) *Application {
	a := &Application{
		scene:     sc,
		renderer:  NewRenderer(8, 16),
		keymap:    keybind.DefaultKeymap(),
		help:      help.New(),
		logger:    slog.Default(),
		fps:       defaultFPS,
		showHelp:  true,
		swapAxes:  tcell.ModCtrl,
		statusBar: tcell.StyleDefault.Reverse(true),
		updates:   make(chan queuedUpdate, updatesQueueSize),
		done:      make(chan struct{}),
	}
	a.engine = layout.New(1, nil)
	for _, option := range options {
		option(a)
	}
	a.engine.Measurer = layout.CellMeasurer{CellWidth: a.renderer.CellWidth, CellHeight: a.renderer.CellHeight}
	a.plugin = scrollbar.NewPlugin(scrollbar.WithLogger(a.logger))
	return a
}

// SetScreen sets the application's screen.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		a.screen = screen
	}
	return a
}

// SetScene replaces the scene shown. Any drag in progress is dropped. Call it
// from the event loop, for example through QueueUpdateDraw.
func (a *Application) SetScene(sc *scene.Scene) *Application {
	a.scene = sc
	a.dragTarget = scrollbar.Entity{}
	a.logger.Info("scene replaced", "nodes", sc.Tree.Len())
	return a
}

// Scale returns the current UI scale.
func (a *Application) Scale() float64 {
	return a.engine.Scale
}

// Run starts the application and thus the event loop. This function returns
// when [Application.Stop] was called.
func (a *Application) Run() error {
	defer a.finish()
	var appErr error
	a.Lock()

	// Make a screen if there is none yet.
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.Unlock()
			return fmt.Errorf("failed to create screen: %w", err)
		}
		if err = screen.Init(); err != nil {
			a.Unlock()
			return fmt.Errorf("failed to initialize screen: %w", err)
		}
		a.screen = screen
	}
	screen := a.screen
	screen.EnableMouse()
	a.events = screen.EventQ()
	a.Unlock()

	// We catch panics to clean up because they mess up the terminal.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	if a.title != "" {
		a.executeCommand(SetTitleCommand(a.title))
	}
	a.logger.Info("host started", "fps", a.fps, "scale", a.engine.Scale, "scrollbars", len(a.scene.Tree.Scrollbars()))
	a.frame()

	ticker := time.NewTicker(time.Second / time.Duration(a.fps))
	defer ticker.Stop()

EventLoop:
	for {
		select {
		case event := <-a.events:
			if event == nil {
				break EventLoop
			}

			switch event := event.(type) {
			case *tcell.EventKey:
				if a.executeCommand(a.keyCommand(event)) {
					a.frame()
				}
			case *tcell.EventResize:
				screen.Sync()
				a.frame()
			case *tcell.EventMouse:
				x, y := event.Position()
				if a.executeCommand(a.mouseCommand(x, y, event.Buttons(), event.Modifiers())) {
					a.frame()
				}
			case *tcell.EventError:
				appErr = event
				a.Stop()
			}

		case <-ticker.C:
			a.frame()

		// If we have updates, now is the time to execute them.
		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}
		}
	}

	a.logger.Info("host stopped", "frames", a.plugin.Frame())
	return appErr
}

// Stop stops the application, causing Run() to return.
func (a *Application) Stop() {
	a.Lock()
	defer a.Unlock()
	screen := a.screen
	if screen == nil {
		return
	}
	screen.Fini()
	a.screen = nil
}

// finish marks the event loop as gone, releasing goroutines blocked in
// QueueUpdate.
func (a *Application) finish() {
	a.doneOnce.Do(func() { close(a.done) })
}

// QueueUpdate is used to synchronize access to the scene from non-main
// goroutines. The provided function will be executed as part of the event loop
// and thus will not cause race conditions with frames.
//
// This function returns after f has executed, or without executing it once
// Run has returned.
func (a *Application) QueueUpdate(f func()) *Application {
	ch := make(chan struct{}, 1)
	select {
	case a.updates <- queuedUpdate{f: f, done: ch}:
	case <-a.done:
		return a
	}
	select {
	case <-ch:
	case <-a.done:
	}
	return a
}

// QueueUpdateDraw works like QueueUpdate() except it draws a frame
// immediately after executing f.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	a.QueueUpdate(func() {
		f()
		a.frame()
	})
	return a
}

// window returns the area available to the scene in physical pixels. The
// bottom row is kept for the status line.
func (a *Application) window() scrollbar.Window {
	rows := a.rows
	if a.showHelp {
		rows--
	}
	return scrollbar.Window{
		Width:  float64(max(a.cols, 0)) * a.renderer.CellWidth,
		Height: float64(max(rows, 0)) * a.renderer.CellHeight,
	}
}

// layout lays the scene out and synchronizes its scrollbars. Thumbs are laid
// out a second time so the drawn frame reflects the synchronized geometry.
func (a *Application) layout() {
	window := a.window()
	tree := a.scene.Tree
	a.engine.Compute(tree, window)
	// Failures are logged by the plugin and retried every frame.
	_ = a.plugin.Update(tree)
	a.engine.Compute(tree, window)
}

// frame lays out and draws one frame.
func (a *Application) frame() {
	a.RLock()
	screen := a.screen
	a.RUnlock()
	if screen == nil {
		return
	}

	a.cols, a.rows = screen.Size()
	a.layout()

	screen.Clear()
	a.render(screen)
	screen.Show()
}

// render draws the scene and the status line onto s.
func (a *Application) render(s Surface) {
	bounds := cellRect{x1: a.cols, y1: a.rows}
	if a.showHelp {
		bounds.y1--
	}
	a.renderer.Draw(s, a.scene, bounds)
	if a.showHelp && a.rows > 0 {
		a.drawStatus(s, a.rows-1)
	}
}

func (a *Application) drawStatus(s Surface, y int) {
	row := cellRect{y0: y, x1: a.cols, y1: y + 1}
	fill(s, row, a.statusBar)

	scale := fmt.Sprintf(" scale %.2f ", a.engine.Scale)
	if width := a.cols - len(scale) - 2; width > 0 {
		x := 1
		for _, segment := range a.help.Line(a.keymap.ShortHelp(), width) {
			x += printText(s, segment.Text, x, y, row, segment.Style.Reverse(true))
		}
	}
	printText(s, scale, a.cols-len(scale), y, row, a.statusBar)
}

// pixel returns the physical position of the center of a cell.
func (a *Application) pixel(x, y int) scrollbar.Vec2 {
	return scrollbar.Vec2{
		X: (float64(x) + 0.5) * a.renderer.CellWidth,
		Y: (float64(y) + 0.5) * a.renderer.CellHeight,
	}
}

// keyCommand maps a key event to a command.
func (a *Application) keyCommand(event *tcell.EventKey) Command {
	scale := a.engine.Scale
	switch {
	case keybind.Matches(event, a.keymap.Quit):
		return QuitCommand{}
	case keybind.Matches(event, a.keymap.ScaleUp):
		return SetScaleCommand(scale + scale*scaleStep)
	case keybind.Matches(event, a.keymap.ScaleDown):
		return SetScaleCommand(scale - scale*scaleStep)
	case keybind.Matches(event, a.keymap.Home):
		return ScrollHomeCommand{}
	}
	return nil
}

// mouseCommand handles a mouse event at cell (x, y). Pressing the primary
// button over a thumb captures it; moving with the button held drags the
// captured thumb; releasing it ends the drag. Wheel buttons scroll every
// scroll area under the pointer.
func (a *Application) mouseCommand(x, y int, buttons tcell.ButtonMask, mods tcell.ModMask) Command {
	var cmd Command
	tree := a.scene.Tree
	p := a.pixel(x, y)
	swap := a.swapAxes != 0 && mods&a.swapAxes == a.swapAxes

	pressed := buttons&tcell.ButtonPrimary != 0
	wasPressed := a.lastButtons&tcell.ButtonPrimary != 0
	switch {
	case pressed && !wasPressed:
		for _, e := range layout.Hit(tree, p) {
			if tree.Scrollbar(e) != nil {
				a.dragTarget = e
				a.dragFrom = p
				a.logger.Debug("drag started", "entity", e)
				break
			}
		}
	case pressed && a.dragTarget.IsValid():
		delta := scrollbar.Vec2{X: p.X - a.dragFrom.X, Y: p.Y - a.dragFrom.Y}
		if delta != (scrollbar.Vec2{}) {
			a.dragFrom = p
			event := scrollbar.DragEvent{Target: a.dragTarget, Delta: delta, SwapAxes: swap}
			if err := a.plugin.HandleDrag(tree, a.window(), event); err == nil {
				cmd = AppendCommand(cmd, RedrawCommand{})
			}
		}
	case !pressed && a.dragTarget.IsValid():
		a.logger.Debug("drag ended", "entity", a.dragTarget)
		a.dragTarget = scrollbar.Entity{}
	}

	for _, w := range []struct {
		button tcell.ButtonMask
		event  wheel.Event
	}{
		{tcell.WheelUp, wheel.Event{Unit: wheel.Line, Y: 1}},
		{tcell.WheelDown, wheel.Event{Unit: wheel.Line, Y: -1}},
		{tcell.WheelLeft, wheel.Event{Unit: wheel.Line, X: 1}},
		{tcell.WheelRight, wheel.Event{Unit: wheel.Line, X: -1}},
	} {
		if buttons&w.button != 0 && wheel.Scroll(tree, layout.Hit(tree, p), w.event, swap) > 0 {
			cmd = AppendCommand(cmd, RedrawCommand{})
		}
	}

	a.lastButtons = buttons & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)
	return cmd
}

// ClampScale keeps a UI scale within [MinScale, MaxScale].
func ClampScale(scale float64) float64 {
	if math.IsNaN(scale) {
		return 1
	}
	return min(max(scale, MinScale), MaxScale)
}

// executeCommand runs cmd and reports whether a new frame is needed.
func (a *Application) executeCommand(cmd Command) bool {
	if cmd == nil {
		return false
	}

	a.RLock()
	screen := a.screen
	a.RUnlock()

	switch c := cmd.(type) {
	case BatchCommand:
		handled := false
		for _, item := range c {
			if a.executeCommand(item) {
				handled = true
			}
		}
		return handled
	case RedrawCommand:
		return true
	case QuitCommand:
		a.Stop()
		return false
	case SetTitleCommand:
		if screen == nil {
			return false
		}
		screen.SetTitle(string(c))
		return false
	case SetScaleCommand:
		scale := ClampScale(float64(c))
		if scale == a.engine.Scale {
			return false
		}
		a.logger.Debug("ui scale changed", "from", a.engine.Scale, "to", scale)
		a.engine.Scale = scale
		return true
	case ScrollHomeCommand:
		tree := a.scene.Tree
		for _, thumb := range tree.Scrollbars() {
			if sp := tree.ScrollPosition(tree.Scrollbar(thumb).ScrollArea()); sp != nil {
				*sp = scrollbar.ScrollPosition{}
			}
		}
		return true
	}

	return false
}
