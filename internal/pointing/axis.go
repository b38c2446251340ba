// Package pointing reduces antenna pointing-calibration logs into corrected
// offsets, beam-width estimates and correction events. Every stage is a pure
// function of the previous stage's product; nothing here logs, prints or
// touches the filesystem.
package pointing

import "fmt"

// Axis is the scan direction of a pointing record
type Axis int

const (
	Azimuth Axis = iota
	Elevation
)

// Axes lists both axes in processing order
var Axes = [...]Axis{Azimuth, Elevation}

// axisInfo holds everything that differs between the two scan directions
type axisInfo struct {
	name             string // human name
	tag              string // value of the AZEL column
	autoCorrection   string // automatic correction column
	manualCorrection string // manual correction column
}

var axisTable = [...]axisInfo{
	Azimuth:   {name: "azimuth", tag: "AZ", autoCorrection: "qlookAutoDaz", manualCorrection: "manualDaz"},
	Elevation: {name: "elevation", tag: "EL", autoCorrection: "qlookAutoDel", manualCorrection: "manualDel"},
}

// ParseAxis maps an AZEL tag to its axis
func ParseAxis(tag string) (Axis, bool) {
	for _, a := range Axes {
		if axisTable[a].tag == tag {
			return a, true
		}
	}
	return 0, false
}

func (a Axis) valid() bool {
	return a >= 0 && int(a) < len(axisTable)
}

// String returns "azimuth" or "elevation"
func (a Axis) String() string {
	if !a.valid() {
		return fmt.Sprintf("Axis(%d)", int(a))
	}
	return axisTable[a].name
}

// Tag returns the log tag for the axis, "AZ" or "EL"
func (a Axis) Tag() string {
	if !a.valid() {
		return ""
	}
	return axisTable[a].tag
}

// MarshalText implements encoding.TextMarshaler
func (a Axis) MarshalText() ([]byte, error) {
	if !a.valid() {
		return nil, fmt.Errorf("invalid axis %d", int(a))
	}
	return []byte(axisTable[a].tag), nil
}
