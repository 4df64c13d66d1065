package scrollbar

import "math"

const (
	// MinThumbFraction keeps the thumb grabbable on very long content.
	MinThumbFraction = 0.05
	// MaxThumbFraction is a thumb that fills the whole track.
	MaxThumbFraction = 1.0
)

// MaxScroll returns how far the content of area overflows it along d, in
// logical pixels. Every laid out child contributes its size, padding and Px
// margins; margins in other units count as zero. Children that have not been
// laid out yet are skipped. The result is negative when the children do not
// fill the area.
func MaxScroll(tree *Tree, area Entity, d Direction) (float64, error) {
	computedArea := tree.Computed(area)
	if computedArea == nil {
		return 0, &BindingError{Entity: area, What: "scroll area has no computed geometry"}
	}

	var total float64
	for _, child := range tree.Children(area) {
		computed := tree.Computed(child)
		if computed == nil || computed.InverseScaleFactor <= 0 {
			continue
		}
		isf := computed.InverseScaleFactor
		lead, trail := d.marginsAlong(tree.Node(child).Margin)
		extent := computed.along(d) + computed.paddingAlong(d) +
			pxMargin(lead)/isf + pxMargin(trail)/isf
		total += extent * isf
	}
	return total - computedArea.along(d)*computedArea.InverseScaleFactor, nil
}

// pxMargin returns the margin length for Px values and zero otherwise.
func pxMargin(v Val) float64 {
	switch v.Unit() {
	case UnitPx:
		px, _ := v.AsPx()
		return px
	case UnitPercent, UnitAuto:
		return 0
	default:
		return 0
	}
}

// ThumbFraction returns the share of the track the thumb covers, clamped to
// [MinThumbFraction, MaxThumbFraction]. visible is the scroll area's size in
// physical pixels and isf its inverse scale factor. A thumb for content that
// does not overflow fills the track.
func ThumbFraction(visible, maxScroll, isf float64) float64 {
	denominator := maxScroll + visible
	if denominator <= 0 {
		return MaxThumbFraction
	}
	fraction := visible / denominator * isf
	if math.IsNaN(fraction) {
		return MaxThumbFraction
	}
	return clamp(fraction, MinThumbFraction, MaxThumbFraction)
}

// ScrollPercent returns offset as a share of maxScroll. It is zero when there
// is nothing to scroll.
func ScrollPercent(offset, maxScroll float64) float64 {
	if maxScroll <= 0 {
		return 0
	}
	p := offset / maxScroll
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// ThumbPosition maps a scroll offset to the thumb's along-track position in
// logical pixels. track and thumb are physical lengths; parentISF is the
// track's inverse scale factor.
func ThumbPosition(offset, maxScroll, track, thumb, parentISF float64) float64 {
	return (track - thumb) * parentISF * ScrollPercent(offset, maxScroll)
}

// ClampThumb clamps a logical thumb position into the track travel.
func ClampThumb(position, track, thumb, parentISF float64) float64 {
	return clamp(position, 0, max((track-thumb)*parentISF, 0))
}

// OffsetFromThumb is the inverse of ThumbPosition. travel is the logical
// distance the thumb can move. With no travel there is nothing to scroll and
// the offset is zero.
func OffsetFromThumb(position, travel, maxScroll float64) float64 {
	if travel <= 0 {
		return 0
	}
	return position / travel * maxScroll
}

// clamp assumes lo <= hi.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
