// Package dasha builds and queries the 120-year Vimshottari Dasha period
// tree of spec §4.6: 9 Mahadasha roots, each with 9 Antardasha children,
// each with 9 Pratyantardasha grandchildren (729 leaves total).
package dasha

import (
	"sort"
	"time"
)

// Planet indexes the canonical 9-planet Vimshottari cycle (spec §3 "Dasha
// Period Tree" invariant (d)).
type Planet int

const (
	Sun Planet = iota
	Moon
	Mars
	Rahu
	Jupiter
	Saturn
	Mercury
	Ketu
	Venus
)

func (p Planet) String() string {
	return [...]string{"Sun", "Moon", "Mars", "Rahu", "Jupiter", "Saturn", "Mercury", "Ketu", "Venus"}[p]
}

// cyclicOrder is the fixed 9-planet sequence, starting from Sun, that every
// Mahadasha/Antardasha/Pratyantardasha cycle follows (spec §3/§4.6).
var cyclicOrder = [9]Planet{Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury, Ketu, Venus}

// yearShare is each planet's canonical Vimshottari year share, summing to
// 120 (spec §3 "Dasha Period Tree" invariant (c)).
var yearShare = map[Planet]float64{
	Sun:     6,
	Moon:    10,
	Mars:    7,
	Rahu:    18,
	Jupiter: 16,
	Saturn:  19,
	Mercury: 17,
	Ketu:    7,
	Venus:   20,
}

const totalYears = 120.0
const julianYear = 365.25 * 24 * time.Hour

// nakshatraSpanDeg is the width of each of the 27 equal ecliptic divisions:
// 13 degrees 20 minutes.
const nakshatraSpanDeg = 360.0 / 27.0

// ephemerisLowerBound is the earliest instant the compact Swiss Ephemeris
// data files this system targets (internal/ephemeris/swisseph) actually
// cover. A birth shortly after this date, or a Moon longitude late in its
// nakshatra (so that most of the starting planet's Mahadasha has already
// elapsed at birth), can push the balance-corrected first Mahadasha start
// before this date; spec §4.6 "Edge case (balance)" requires capping there instead
// of returning a start time outside the supported ephemeris range.
var ephemerisLowerBound = time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)

// Node is one level of the Dasha tree.
type Node struct {
	Planet   Planet
	Start    time.Time
	End      time.Time
	Duration time.Duration
	Children []*Node
}

// Tree is the full 729-leaf Vimshottari tree plus a flattened, sorted leaf
// index for fast current-period lookup.
type Tree struct {
	Roots []*Node
	leaves []*leafEntry

	// BalanceCapped is true when the balance calculation would have placed
	// the first Mahadasha's start before ephemerisLowerBound; Roots[0].Start
	// was capped there instead (spec §4.6 "Edge case (balance)").
	BalanceCapped bool
}

type leafEntry struct {
	pratyantardasha *Node
	antardasha      *Node
	mahadasha       *Node
}

// nakshatraIndexFor returns the 0-based nakshatra index (0..26) for an
// ecliptic longitude, used both here and by the panchanga engine.
func nakshatraIndexFor(moonLongitudeDeg float64) int {
	normalized := normalizeDeg(moonLongitudeDeg)
	idx := int(normalized / nakshatraSpanDeg)
	if idx > 26 {
		idx = 26
	}
	return idx
}

// NakshatraIndex exposes nakshatraIndexFor to other engines (e.g.
// panchanga) that need the same 27-division index without duplicating the
// constant.
func NakshatraIndex(moonLongitudeDeg float64) int {
	return nakshatraIndexFor(moonLongitudeDeg)
}

func normalizeDeg(d float64) float64 {
	d = d - 360.0*float64(int(d/360.0))
	if d < 0 {
		d += 360.0
	}
	return d
}

// Build constructs the Dasha tree for a birth instant and Moon longitude at
// birth, per spec §4.6.
func Build(birth time.Time, moonLongitudeDeg float64) *Tree {
	nakshatra := nakshatraIndexFor(moonLongitudeDeg)
	startPlanetIdx := nakshatra % 9
	startPlanet := cyclicOrder[startPlanetIdx]

	fractionElapsed := remainder(moonLongitudeDeg, nakshatraSpanDeg) / nakshatraSpanDeg
	balanceFraction := 1 - fractionElapsed
	fullShare := yearShare[startPlanet]
	balanceYears := balanceFraction * fullShare

	firstMahaStart := birth.Add(-yearsToDuration(fullShare - balanceYears))
	capped := false
	if firstMahaStart.Before(ephemerisLowerBound) {
		firstMahaStart = ephemerisLowerBound
		capped = true
	}

	roots := make([]*Node, 9)
	cursor := firstMahaStart
	for i := 0; i < 9; i++ {
		planet := cyclicOrder[(startPlanetIdx+i)%9]
		duration := yearsToDuration(yearShare[planet])
		maha := &Node{Planet: planet, Start: cursor, Duration: duration}
		maha.End = cursor.Add(duration)
		maha.Children = buildChildren(maha, planet)
		roots[i] = maha
		cursor = maha.End
	}

	t := &Tree{Roots: roots, BalanceCapped: capped}
	t.buildLeafIndex()
	return t
}

// buildChildren builds the 9 Antardasha children of a Mahadasha node,
// starting the cyclic order at the Mahadasha's own planet (spec §4.6).
func buildChildren(parent *Node, parentPlanet Planet) []*Node {
	startIdx := indexOf(parentPlanet)
	children := make([]*Node, 9)
	cursor := parent.Start
	for i := 0; i < 9; i++ {
		planet := cyclicOrder[(startIdx+i)%9]
		share := parent.Duration.Seconds() * yearShare[planet] / totalYears
		duration := time.Duration(share * float64(time.Second))
		node := &Node{Planet: planet, Start: cursor, Duration: duration}
		node.End = cursor.Add(duration)
		node.Children = buildGrandchildren(node, planet)
		children[i] = node
		cursor = node.End
	}
	// Snap the last child's End to the parent's End to avoid float drift
	// violating the "no gaps or overlaps" invariant.
	children[8].End = parent.End
	return children
}

// buildGrandchildren builds the 9 Pratyantardasha leaves of an Antardasha
// node, starting the cyclic order at the Antardasha's own planet.
func buildGrandchildren(parent *Node, parentPlanet Planet) []*Node {
	startIdx := indexOf(parentPlanet)
	children := make([]*Node, 9)
	cursor := parent.Start
	for i := 0; i < 9; i++ {
		planet := cyclicOrder[(startIdx+i)%9]
		share := parent.Duration.Seconds() * yearShare[planet] / totalYears
		duration := time.Duration(share * float64(time.Second))
		node := &Node{Planet: planet, Start: cursor, Duration: duration}
		node.End = cursor.Add(duration)
		children[i] = node
		cursor = node.End
	}
	children[8].End = parent.End
	return children
}

func indexOf(p Planet) int {
	for i, candidate := range cyclicOrder {
		if candidate == p {
			return i
		}
	}
	return 0
}

func yearsToDuration(years float64) time.Duration {
	return time.Duration(years * float64(julianYear))
}

func remainder(value, modulus float64) float64 {
	r := value - modulus*float64(int(value/modulus))
	if r < 0 {
		r += modulus
	}
	return r
}

func (t *Tree) buildLeafIndex() {
	for _, maha := range t.Roots {
		for _, antara := range maha.Children {
			for _, praty := range antara.Children {
				t.leaves = append(t.leaves, &leafEntry{
					pratyantardasha: praty,
					antardasha:      antara,
					mahadasha:       maha,
				})
			}
		}
	}
	sort.Slice(t.leaves, func(i, j int) bool {
		return t.leaves[i].pratyantardasha.Start.Before(t.leaves[j].pratyantardasha.Start)
	})
}

// CurrentPeriod is the result of a point-in-time lookup: the three active
// nodes at every depth, plus the instant queried.
type CurrentPeriod struct {
	Mahadasha       *Node
	Antardasha      *Node
	Pratyantardasha *Node
	Instant         time.Time
}

// Lookup binary-searches the flattened leaf index for the Pratyantardasha
// whose interval contains instant, returning all three containing levels
// (spec §4.6 "Current-period lookup").
func (t *Tree) Lookup(instant time.Time) (CurrentPeriod, bool) {
	leaves := t.leaves
	i := sort.Search(len(leaves), func(i int) bool {
		return leaves[i].pratyantardasha.Start.After(instant)
	})
	// sort.Search finds the first leaf whose start is after instant; the
	// containing leaf, if any, is the one just before that (an instant on a
	// boundary belongs to the leaf that starts there).
	candidate := i - 1
	if candidate < 0 {
		if len(leaves) > 0 && !leaves[0].pratyantardasha.Start.After(instant) {
			candidate = 0
		} else {
			return CurrentPeriod{}, false
		}
	}
	if candidate >= len(leaves) {
		return CurrentPeriod{}, false
	}
	entry := leaves[candidate]
	if instant.Before(entry.pratyantardasha.Start) || !instant.Before(entry.pratyantardasha.End) {
		return CurrentPeriod{}, false
	}
	return CurrentPeriod{
		Mahadasha:       entry.mahadasha,
		Antardasha:      entry.antardasha,
		Pratyantardasha: entry.pratyantardasha,
		Instant:         instant,
	}, true
}

// TransitionLevel names which level of the tree actually changes at an
// upcoming transition boundary (spec §4.6 "Upcoming transitions").
type TransitionLevel string

const (
	MahadashaTransition       TransitionLevel = "mahadasha"
	AntardashaTransition      TransitionLevel = "antardasha"
	PratyantardashaTransition TransitionLevel = "pratyantardasha"
)

// Transition is one upcoming Pratyantardasha boundary, classified by the
// highest level that changes there and annotated with how far away it is.
type Transition struct {
	At              time.Time
	Level           TransitionLevel
	DaysUntil       float64
	Mahadasha       Planet
	Antardasha      Planet
	Pratyantardasha Planet
}

// UpcomingTransitions walks the flattened leaf index forward from instant
// and returns up to limit future Pratyantardasha start boundaries, each
// classified against the leaf immediately before it: a Mahadasha
// transition if the parent Mahadasha differs (highest priority), else an
// Antardasha transition if the parent Antardasha differs, else a
// Pratyantardasha transition (spec §4.6 "Upcoming transitions").
func (t *Tree) UpcomingTransitions(instant time.Time, limit int) []Transition {
	var out []Transition

	var prevMaha, prevAntara *Node
	if current, ok := t.Lookup(instant); ok {
		prevMaha, prevAntara = current.Mahadasha, current.Antardasha
	}

	for _, entry := range t.leaves {
		if len(out) >= limit {
			break
		}
		if !entry.pratyantardasha.Start.After(instant) {
			continue
		}

		level := PratyantardashaTransition
		switch {
		case prevMaha == nil || entry.mahadasha != prevMaha:
			level = MahadashaTransition
		case entry.antardasha != prevAntara:
			level = AntardashaTransition
		}

		out = append(out, Transition{
			At:              entry.pratyantardasha.Start,
			Level:           level,
			DaysUntil:       entry.pratyantardasha.Start.Sub(instant).Hours() / 24,
			Mahadasha:       entry.mahadasha.Planet,
			Antardasha:      entry.antardasha.Planet,
			Pratyantardasha: entry.pratyantardasha.Planet,
		})

		prevMaha, prevAntara = entry.mahadasha, entry.antardasha
	}
	return out
}
