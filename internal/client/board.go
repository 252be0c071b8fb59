package client

// BoardState says whether a series panel has anything to show.
type BoardState int

const (
	// Empty means the series has no characters loaded.
	Empty BoardState = iota
	// Browsing means the panel is positioned on a character.
	Browsing
)

// BoardView keeps the per-series browsing position of the noticeboard.
// Each configured series gets its own character list and cursor, so
// paging one panel never moves the other.  Not safe for concurrent use;
// drive it from a single loop (see Poller).
type BoardView struct {
	series []string
	chars  map[string][]Character
	index  map[string]int
}

// NewBoardView creates a view with one panel per series, all empty.
func NewBoardView(series ...string) *BoardView {
	v := &BoardView{
		series: series,
		chars:  make(map[string][]Character, len(series)),
		index:  make(map[string]int, len(series)),
	}
	for _, s := range series {
		v.chars[s] = nil
		v.index[s] = 0
	}
	return v
}

// Series returns the configured series titles in panel order.
func (v *BoardView) Series() []string { return v.series }

// Load replaces the board content with a fresh character list,
// partitioning it by series.  Characters of unknown series are dropped.
// Each cursor is clamped so the panel keeps pointing at a valid entry
// after rows are added or removed.
func (v *BoardView) Load(items []Character) {
	for _, s := range v.series {
		v.chars[s] = nil
	}
	for _, ch := range items {
		if _, ok := v.index[ch.SeriesTitle]; !ok {
			continue
		}
		v.chars[ch.SeriesTitle] = append(v.chars[ch.SeriesTitle], ch)
	}
	for _, s := range v.series {
		n := len(v.chars[s])
		if n == 0 {
			v.index[s] = 0
		} else if v.index[s] >= n {
			v.index[s] = n - 1
		}
	}
}

// State reports whether the series panel has content.
func (v *BoardView) State(series string) BoardState {
	if len(v.chars[series]) == 0 {
		return Empty
	}
	return Browsing
}

// Count returns how many characters the series holds.
func (v *BoardView) Count(series string) int { return len(v.chars[series]) }

// Current returns the character under the series cursor, or false when
// the panel is empty.
func (v *BoardView) Current(series string) (Character, bool) {
	list := v.chars[series]
	if len(list) == 0 {
		return Character{}, false
	}
	return list[v.index[series]], true
}

// Position returns the 1-based cursor position, 0 when empty.
func (v *BoardView) Position(series string) int {
	if len(v.chars[series]) == 0 {
		return 0
	}
	return v.index[series] + 1
}

// Next advances the series cursor, wrapping past the last entry.
func (v *BoardView) Next(series string) (Character, bool) {
	return v.step(series, 1)
}

// Prev moves the series cursor back, wrapping before the first entry.
func (v *BoardView) Prev(series string) (Character, bool) {
	return v.step(series, -1)
}

func (v *BoardView) step(series string, delta int) (Character, bool) {
	list := v.chars[series]
	n := len(list)
	if n == 0 {
		return Character{}, false
	}
	v.index[series] = ((v.index[series]+delta)%n + n) % n
	return list[v.index[series]], true
}
