package model

import "sort"

// IntervalTree provides O(log n + k) overlap queries using a sorted-slice approach.
// Features are loaded once and never modified after build.
type IntervalTree struct {
	intervals []interval
	maxEnd    []int64 // maxEnd[i] = max(end) for intervals[:i+1]
}

type interval struct {
	start   int64
	end     int64
	feature Feature
}

// BuildIntervalTree creates an interval tree from a slice of features.
func BuildIntervalTree(features []Feature) *IntervalTree {
	if len(features) == 0 {
		return &IntervalTree{}
	}

	intervals := make([]interval, len(features))
	for i, f := range features {
		intervals[i] = interval{start: f.Low(), end: f.High(), feature: f}
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = intervals[i].end
		if maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &IntervalTree{intervals: intervals, maxEnd: maxEnd}
}

// FindOverlaps returns all features whose [Low, High] range contains pos.
func (t *IntervalTree) FindOverlaps(pos int64) []Feature {
	return t.FindRange(pos, pos)
}

// FindRange returns all features overlapping [low, high], ordered by start.
func (t *IntervalTree) FindRange(low, high int64) []Feature {
	if len(t.intervals) == 0 {
		return nil
	}

	// Candidates are [0, hi): every interval starting after high is excluded.
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].start > high
	})

	var result []Feature
	for i := hi - 1; i >= 0; i-- {
		// maxEnd[i] < low means nothing in 0..i reaches the query.
		if t.maxEnd[i] < low {
			break
		}
		if t.intervals[i].end >= low {
			result = append(result, t.intervals[i].feature)
		}
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}
