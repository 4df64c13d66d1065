package host

import "github.com/xqrs/scrollbar"

const subcell = 8

// GlyphSet holds the fractional block glyphs used to draw thumbs in 1/8 cell
// steps. Index i covers i+1 eighths of a cell.
type GlyphSet struct {
	ThumbVerticalLower [8]string
	ThumbVerticalUpper [8]string

	ThumbHorizontalLeft  [8]string
	ThumbHorizontalRight [8]string
}

// LegacyComputingGlyphSet returns legacy-computing symbols for full 1/8 fractional fidelity.
func LegacyComputingGlyphSet() GlyphSet {
	return GlyphSet{
		ThumbVerticalLower: [8]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbVerticalUpper: [8]string{"▔", "🮂", "🮃", "▀", "🮄", "🮅", "🮆", "█"},

		ThumbHorizontalLeft:  [8]string{"▏", "▎", "▍", "▌", "▋", "▊", "▉", "█"},
		ThumbHorizontalRight: [8]string{"▕", "🮇", "🮈", "▐", "🮉", "🮊", "🮋", "█"},
	}
}

// UnicodeGlyphSet returns a standard-unicode-only approximation set.
func UnicodeGlyphSet() GlyphSet {
	return GlyphSet{
		ThumbVerticalLower: [8]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbVerticalUpper: [8]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"},

		ThumbHorizontalLeft:  [8]string{"▏", "▎", "▍", "▌", "▋", "▊", "▉", "█"},
		ThumbHorizontalRight: [8]string{"▕", "▕", "▐", "▐", "▐", "▐", "█", "█"},
	}
}

// glyph picks the symbol for a cell whose thumb coverage starts start
// eighths into the cell and is fillLen eighths long.
func (g GlyphSet) glyph(d scrollbar.Direction, start, fillLen int) string {
	if fillLen <= 0 {
		return " "
	}
	fillLen = min(fillLen, subcell)
	ix := fillLen - 1
	if d == scrollbar.Vertical {
		if start == 0 {
			return g.ThumbVerticalUpper[ix]
		}
		return g.ThumbVerticalLower[ix]
	}
	if start == 0 {
		return g.ThumbHorizontalLeft[ix]
	}
	return g.ThumbHorizontalRight[ix]
}

// span is a thumb extent along its track in subcells.
type span struct {
	start  int
	length int
}

// fill returns the thumb coverage of cell as a cell-local start and length.
func (s span) fill(cell int) (start, fillLen int) {
	if s.length <= 0 {
		return 0, 0
	}
	cellStart := cell * subcell
	cellEnd := cellStart + subcell
	lo := max(s.start, cellStart)
	hi := min(s.start+s.length, cellEnd)
	if hi <= lo {
		return 0, 0
	}
	return lo - cellStart, hi - lo
}

// cells returns the first and last cell index touched by s.
func (s span) cells() (first, last int) {
	return floorDiv(s.start, subcell), floorDiv(s.start+s.length-1, subcell)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
