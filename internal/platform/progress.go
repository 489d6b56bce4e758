package platform

import (
	"regexp"
	"strconv"
)

// percentPattern matches the percentage marker in engine progress lines,
// e.g. "[download]  42.7% of 3.42MiB at 1.21MiB/s ETA 00:02"
var percentPattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)%`)

// ExtractPercent pulls a best-effort completion percentage out of a raw
// progress line. The line itself stays opaque; only the percentage marker is
// interpreted.
func ExtractPercent(line string) (int, bool) {
	matches := percentPattern.FindStringSubmatch(line)
	if len(matches) < 2 {
		return 0, false
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, false
	}

	percent := int(value)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent, true
}
