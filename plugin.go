package scrollbar

import (
	"errors"
	"fmt"
	"log/slog"
)

// Window is the size of the host window in physical pixels.
type Window struct {
	Width, Height float64
}

func (w Window) along(d Direction) float64 {
	if d == Horizontal {
		return w.Width
	}
	return w.Height
}

// DragEvent is one incremental pointer drag aimed at a node.
type DragEvent struct {
	Target Entity
	// Delta is the pointer movement since the previous drag event, in window
	// pixels.
	Delta Vec2
	// SwapAxes exchanges the X and Y components of Delta, so one input axis
	// can drive either kind of scrollbar.
	SwapAxes bool
}

// Plugin drives every scrollbar in a tree. Update must run once per frame,
// after layout. HandleDrag runs for each drag event and reads the max scroll
// cached by the most recent Update; a drag that reaches a scrollbar before
// its first Update is refused.
//
// Several scrollbars may be bound to the same scroll area. Their writes are
// not coordinated: the last write to the offset in a frame wins.
type Plugin struct {
	logger *slog.Logger
	frame  uint64
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger that receives per-scrollbar warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Plugin) {
		p.logger = logger
	}
}

// NewPlugin returns a Plugin.
func NewPlugin(options ...Option) *Plugin {
	p := &Plugin{}
	for _, option := range options {
		option(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Frame returns the number of Update passes run so far.
func (p *Plugin) Frame() uint64 { return p.frame }

// Update synchronizes the thumb of every scrollbar in tree with its scroll
// area. A scrollbar that cannot be synchronized is logged and skipped; the
// returned error joins all such failures.
func (p *Plugin) Update(tree *Tree) error {
	p.frame++
	var errs []error
	for _, thumb := range tree.Scrollbars() {
		if err := p.synchronize(tree, thumb); err != nil {
			err = fmt.Errorf("sync %v: %w", thumb, err)
			p.warn(tree, thumb, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Plugin) synchronize(tree *Tree, thumb Entity) error {
	sb := tree.Scrollbar(thumb)
	d := sb.direction

	scroll := tree.ScrollPosition(sb.scrollArea)
	if scroll == nil {
		return &BindingError{Entity: sb.scrollArea, What: "scroll area is missing or not scrollable"}
	}
	maxScroll, err := MaxScroll(tree, sb.scrollArea, d)
	if err != nil {
		return err
	}
	sb.maxScroll = maxScroll
	sb.syncedFrame = p.frame

	computedArea := tree.Computed(sb.scrollArea)
	computedThumb := tree.Computed(thumb)
	if computedThumb == nil {
		return &BindingError{Entity: thumb, What: "thumb has no computed geometry"}
	}
	computedTrack, err := track(tree, thumb)
	if err != nil {
		return err
	}

	node := tree.Node(thumb)
	size, name := d.sizeAttr(node)
	fraction := ThumbFraction(computedArea.along(d), maxScroll, computedArea.InverseScaleFactor)
	if err := size.SetPercent(fraction * 100); err != nil {
		return attribute(name, err)
	}

	offset, name := d.offsetAttr(node)
	trackLen, thumbLen := computedTrack.along(d), computedThumb.along(d)
	position := ThumbPosition(*scroll.along(d), maxScroll, trackLen, thumbLen, computedTrack.InverseScaleFactor)
	// Offsets written by other code may exceed maxScroll.
	position = ClampThumb(position, trackLen, thumbLen, computedTrack.InverseScaleFactor)
	if err := offset.SetPx(position); err != nil {
		return attribute(name, err)
	}
	return nil
}

// HandleDrag moves the dragged thumb and scrolls its area to match. Events
// aimed at nodes without a scrollbar are ignored.
func (p *Plugin) HandleDrag(tree *Tree, window Window, event DragEvent) error {
	if tree.Scrollbar(event.Target) == nil {
		return nil
	}
	if err := p.drag(tree, window, event); err != nil {
		err = fmt.Errorf("drag %v: %w", event.Target, err)
		p.warn(tree, event.Target, err)
		return err
	}
	return nil
}

func (p *Plugin) drag(tree *Tree, window Window, event DragEvent) error {
	thumb := event.Target
	sb := tree.Scrollbar(thumb)
	d := sb.direction
	if !sb.Synchronized() {
		return ErrNotSynchronized
	}

	computedThumb := tree.Computed(thumb)
	if computedThumb == nil {
		return &BindingError{Entity: thumb, What: "thumb has no computed geometry"}
	}
	computedTrack, err := track(tree, thumb)
	if err != nil {
		return err
	}
	scroll := tree.ScrollPosition(sb.scrollArea)
	if scroll == nil {
		return &BindingError{Entity: sb.scrollArea, What: "scroll area is missing or not scrollable"}
	}
	if tree.Computed(sb.scrollArea) == nil {
		return &BindingError{Entity: sb.scrollArea, What: "scroll area has no computed geometry"}
	}

	offset, name := d.offsetAttr(tree.Node(thumb))
	current, err := offset.AsPx()
	if err != nil {
		return attribute(name, err)
	}

	windowLen := window.along(d)
	trackISF := computedTrack.InverseScaleFactor
	if windowLen <= 0 || trackISF <= 0 {
		return fmt.Errorf("window length %g, track scale %g: %w", windowLen, trackISF, ErrDegenerateGeometry)
	}

	delta := event.Delta
	if event.SwapAxes {
		delta.X, delta.Y = delta.Y, delta.X
	}
	trackLen := computedTrack.along(d)
	thumbLen := computedThumb.along(d)

	moved := current + d.pick(delta)*trackISF*(trackLen/windowLen)
	position := ClampThumb(moved, trackLen, thumbLen, trackISF)
	travel := trackLen*trackISF - thumbLen*computedThumb.InverseScaleFactor

	*scroll.along(d) = OffsetFromThumb(position, travel, sb.maxScroll)
	// Written ahead of the next Update so the thumb follows the pointer
	// without a frame of lag.
	return offset.SetPx(position)
}

// track returns the computed geometry of the thumb's parent.
func track(tree *Tree, thumb Entity) (*ComputedNode, error) {
	parent, ok := tree.Parent(thumb)
	if !ok {
		return nil, &BindingError{Entity: thumb, What: "thumb has no parent track"}
	}
	computed := tree.Computed(parent)
	if computed == nil {
		return nil, &BindingError{Entity: parent, What: "track has no computed geometry"}
	}
	return computed, nil
}

func (p *Plugin) warn(tree *Tree, thumb Entity, err error) {
	attrs := []any{"entity", thumb.String(), "err", err}
	if sb := tree.Scrollbar(thumb); sb != nil {
		attrs = append(attrs, "direction", sb.direction.String(), "scroll_area", sb.scrollArea.String())
	}
	p.logger.Warn("scrollbar update skipped", attrs...)
}
