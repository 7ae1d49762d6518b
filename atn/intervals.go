package atn

import (
	"sort"
	"strconv"
	"strings"
)

// Interval is the half-open range [Start, Stop).
type Interval struct {
	Start int
	Stop  int
}

// Len returns the number of values in the interval.
func (iv Interval) Len() int {
	if iv.Stop <= iv.Start {
		return 0
	}
	return iv.Stop - iv.Start
}

// IntervalSet is an ordered list of disjoint, non-adjacent intervals.
type IntervalSet []Interval

// Of returns the set containing exactly the given values.
func Of(values ...int) IntervalSet {
	var set IntervalSet
	for _, v := range values {
		set = set.Add(v, v+1)
	}
	return set
}

// Range returns the set [start, stop).
func Range(start, stop int) IntervalSet {
	return IntervalSet(nil).Add(start, stop)
}

// Add returns the union of s and [start, stop). The receiver is not modified.
func (s IntervalSet) Add(start, stop int) IntervalSet {
	if stop <= start {
		return s
	}
	out := make(IntervalSet, 0, len(s)+1)
	out = append(out, s...)
	out = append(out, Interval{Start: start, Stop: stop})
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	merged := out[:1]
	for _, iv := range out[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.Stop {
			if iv.Stop > last.Stop {
				last.Stop = iv.Stop
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Union returns the union of s and other.
func (s IntervalSet) Union(other IntervalSet) IntervalSet {
	out := s
	for _, iv := range other {
		out = out.Add(iv.Start, iv.Stop)
	}
	return out
}

// Contains reports whether v lies in one of the intervals.
func (s IntervalSet) Contains(v int) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i].Stop > v })
	return i < len(s) && s[i].Start <= v
}

// Len returns the number of values in the set.
func (s IntervalSet) Len() int {
	n := 0
	for _, iv := range s {
		n += iv.Len()
	}
	return n
}

// Values lists every member in ascending order.
func (s IntervalSet) Values() []int {
	values := make([]int, 0, s.Len())
	for _, iv := range s {
		for v := iv.Start; v < iv.Stop; v++ {
			values = append(values, v)
		}
	}
	return values
}

func (s IntervalSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, iv := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(iv.Start))
		if iv.Len() > 1 {
			b.WriteString("..")
			b.WriteString(strconv.Itoa(iv.Stop - 1))
		}
	}
	b.WriteByte('}')
	return b.String()
}
