package nmg

import (
	"strconv"
	"strings"
)

// parseCell reads a raw survey cell as a number. Empty and sentinel cells
// are missing; survey extracts carry currency marks and thousands commas,
// which are stripped. Anything else unparseable is treated as missing too.
func parseCell(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "NA" || cell == "N/A" || cell == "." {
		return 0, false
	}

	cell = strings.ReplaceAll(cell, ",", "")
	cell = strings.TrimPrefix(cell, "£")

	v, e := strconv.ParseFloat(cell, 64)
	if e != nil {
		return 0, false
	}

	return v, true
}

func has[C comparable](needle C, haystack []C) bool {
	return position(needle, haystack) >= 0
}

func position[C comparable](needle C, haystack []C) int {
	for ind, straw := range haystack {
		if needle == straw {
			return ind
		}
	}

	return -1
}
