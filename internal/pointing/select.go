package pointing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mmatsuo0/qlp/internal/errors"
)

// GroupScore is the selection score of one array group
type GroupScore struct {
	Array string
	Score float64 // summed SN2 over the deduplicated azimuth and elevation scans
}

// SelectionResult is the chosen array group and its deduplicated scans
type SelectionResult struct {
	Array    string
	Scores   []GroupScore // every candidate in enumeration order
	Selected [2]CorrectedScan
}

// Scan returns the selected records of one axis
func (s *SelectionResult) Scan(a Axis) CorrectedScan { return s.Selected[a] }

// ArrayGroups lists the array identifiers of a scan in order of first
// appearance.
func ArrayGroups(scan CorrectedScan) []string {
	seen := make(map[string]struct{})
	var groups []string
	for i := range scan.Records {
		id := scan.Records[i].Array
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		groups = append(groups, id)
	}
	return groups
}

// Dedup restricts a scan to one array group and keeps, for each timestamp,
// only the record that occurs last in input order. Survivors stay in their
// original relative order. Timestamps compare as logged text.
func Dedup(scan CorrectedScan, array string) CorrectedScan {
	lastIndex := make(map[string]int)
	for i := range scan.Records {
		if scan.Records[i].Array == array {
			lastIndex[scan.Records[i].Timestamp] = i
		}
	}
	out := CorrectedScan{Axis: scan.Axis, Records: make([]CorrectedRecord, 0, len(lastIndex))}
	for i := range scan.Records {
		rec := scan.Records[i]
		if rec.Array == array && lastIndex[rec.Timestamp] == i {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

// sumSN2 adds up SN2 over a scan, skipping NaN values
func sumSN2(scan CorrectedScan) float64 {
	vals := make([]float64, 0, len(scan.Records))
	for i := range scan.Records {
		if v := scan.Records[i].SN2(); !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return floats.Sum(vals)
}

// Select scores every array group found in the azimuth scan and picks the
// one with the highest summed SN2. Groups are enumerated in azimuth order of
// first appearance and the first group reaching the maximum wins.
func Select(fileBase string, scans [2]CorrectedScan) (*SelectionResult, error) {
	groups := ArrayGroups(scans[Azimuth])
	if len(groups) == 0 {
		return nil, errors.InsufficientData(fileBase, "azimuth scan has no array groups")
	}

	result := &SelectionResult{Scores: make([]GroupScore, 0, len(groups))}
	best := -1
	for i, g := range groups {
		score := sumSN2(Dedup(scans[Azimuth], g)) + sumSN2(Dedup(scans[Elevation], g))
		result.Scores = append(result.Scores, GroupScore{Array: g, Score: score})
		if best < 0 || score > result.Scores[best].Score {
			best = i
		}
	}

	result.Array = groups[best]
	for _, a := range Axes {
		result.Selected[a] = Dedup(scans[a], result.Array)
		if result.Selected[a].Len() == 0 {
			return nil, errors.InsufficientData(fileBase,
				fmt.Sprintf("array %s has no %s records", result.Array, a))
		}
	}
	return result, nil
}
