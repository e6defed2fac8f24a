package models

import "math"

// DuplicateTolerance is how close (in seconds) two ranges' start and end
// must both be for them to count as the same range.
const DuplicateTolerance = 0.01

// Section represents a named, user-saved time range of a favorite video
type Section struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	StartSeconds float64 `json:"startSeconds"`
	EndSeconds   float64 `json:"endSeconds"`
}

// Duration returns the section length in seconds
func (s Section) Duration() float64 {
	return s.EndSeconds - s.StartSeconds
}

// Range returns the section's bounds without its identity
func (s Section) Range() CandidateRange {
	return CandidateRange{StartSeconds: s.StartSeconds, EndSeconds: s.EndSeconds}
}

// CandidateRange is an unsaved time range suggested from the replay heatmap.
// It has no identity; promoting it into a Section mints an id and a name.
type CandidateRange struct {
	StartSeconds float64 `json:"startSeconds"`
	EndSeconds   float64 `json:"endSeconds"`
}

// Duration returns the range length in seconds
func (r CandidateRange) Duration() float64 {
	return r.EndSeconds - r.StartSeconds
}

// SameRange reports whether both bounds are within DuplicateTolerance
func (r CandidateRange) SameRange(start, end float64) bool {
	return math.Abs(r.StartSeconds-start) <= DuplicateTolerance &&
		math.Abs(r.EndSeconds-end) <= DuplicateTolerance
}
