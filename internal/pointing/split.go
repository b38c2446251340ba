package pointing

import (
	"fmt"

	"github.com/mmatsuo0/qlp/internal/errors"
)

// Split partitions records by their AZEL tag, preserving input order. Rows
// tagged with anything other than AZ or EL belong to neither scan.
func Split(fileBase string, records []RawRecord) ([2]ScanSet, error) {
	var scans [2]ScanSet
	for _, a := range Axes {
		scans[a].Axis = a
	}
	for i := range records {
		if a, ok := ParseAxis(records[i].Tag); ok {
			scans[a].Records = append(scans[a].Records, records[i])
		}
	}
	for _, a := range Axes {
		if scans[a].Len() == 0 {
			return scans, errors.InsufficientData(fileBase, fmt.Sprintf("%s scan is empty", a))
		}
	}
	return scans, nil
}
