// Package interval implements half-open [Start, End) intervals expressed in
// minutes from midnight. Nothing here knows about calendar dates.
package interval

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MinutesPerDay is the exclusive upper bound of a valid minute of day.
const MinutesPerDay = 24 * 60

type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func New(start, end int) Interval {
	return Interval{Start: start, End: end}
}

func (i Interval) Len() int {
	if i.End <= i.Start {
		return 0
	}
	return i.End - i.Start
}

func (i Interval) IsEmpty() bool {
	return i.End <= i.Start
}

// Contains reports whether other lies entirely inside i.
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

func (i Interval) String() string {
	return FormatHM(i.Start) + "-" + FormatHM(i.End)
}

// Overlaps uses half-open semantics: touching intervals do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// OverlapsAny reports whether candidate overlaps at least one of list.
func OverlapsAny(candidate Interval, list []Interval) bool {
	for _, it := range list {
		if Overlaps(candidate, it) {
			return true
		}
	}
	return false
}

// Subtract removes every cut from base and returns the remaining fragments
// in ascending order. Empty fragments are never returned.
func Subtract(base Interval, cuts []Interval) []Interval {
	if base.IsEmpty() {
		return nil
	}

	out := []Interval{base}
	for _, cut := range Merge(cuts) {
		if !Overlaps(base, cut) {
			continue
		}
		next := make([]Interval, 0, len(out)+1)
		for _, frag := range out {
			if !Overlaps(frag, cut) {
				next = append(next, frag)
				continue
			}
			if frag.Start < cut.Start {
				next = append(next, Interval{Start: frag.Start, End: cut.Start})
			}
			if cut.End < frag.End {
				next = append(next, Interval{Start: cut.End, End: frag.End})
			}
		}
		out = next
	}
	return out
}

// SubtractAll applies Subtract to every base interval.
func SubtractAll(bases []Interval, cuts []Interval) []Interval {
	var out []Interval
	for _, b := range Merge(bases) {
		out = append(out, Subtract(b, cuts)...)
	}
	return out
}

// Merge sorts the list and coalesces overlapping or touching intervals.
// Empty intervals are dropped. The input slice is not modified.
func Merge(list []Interval) []Interval {
	cp := make([]Interval, 0, len(list))
	for _, it := range list {
		if !it.IsEmpty() {
			cp = append(cp, it)
		}
	}
	if len(cp) == 0 {
		return nil
	}

	sort.Slice(cp, func(a, b int) bool {
		if cp[a].Start == cp[b].Start {
			return cp[a].End < cp[b].End
		}
		return cp[a].Start < cp[b].Start
	})

	out := []Interval{cp[0]}
	for _, it := range cp[1:] {
		last := &out[len(out)-1]
		if it.Start <= last.End {
			if it.End > last.End {
				last.End = it.End
			}
			continue
		}
		out = append(out, it)
	}
	return out
}

// ParseHM converts "HH:MM" into minutes from midnight. "24:00" is accepted
// as the end of day.
func ParseHM(hm string) (int, error) {
	parts := strings.Split(strings.TrimSpace(hm), ":")
	if len(parts) != 2 || !twoDigits(parts[0]) || !twoDigits(parts[1]) {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", hm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", hm, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", hm, err)
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time out of range: %q", hm)
	}
	return h*60 + m, nil
}

func twoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

func FormatHM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseRange parses a pair of "HH:MM" values into an interval and rejects
// empty or inverted ranges.
func ParseRange(start, end string) (Interval, error) {
	s, err := ParseHM(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseHM(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, fmt.Errorf("end %s must be after start %s", end, start)
	}
	return Interval{Start: s, End: e}, nil
}
