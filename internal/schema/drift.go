package schema

import "strings"

// CompareColumns reports how the live column list (in ordinal order) differs
// from the defined one. Names are matched case-insensitively since Postgres
// folds unquoted names to lower case and Oracle to upper case.
func CompareColumns(defined []Column, live []string) []Drift {
	var drifts []Drift

	liveIdx := make(map[string]int, len(live))
	for i, name := range live {
		liveIdx[strings.ToUpper(name)] = i
	}
	definedIdx := make(map[string]int, len(defined))
	for i, c := range defined {
		definedIdx[strings.ToUpper(c.Name)] = i
	}

	// --- Missing / moved, in definition order ---
	// Relative order is what matters: compare positions among the columns
	// present on both sides, so one missing column does not flag every later one.
	var liveShared []string
	for _, name := range live {
		if _, ok := definedIdx[strings.ToUpper(name)]; ok {
			liveShared = append(liveShared, strings.ToUpper(name))
		}
	}

	sharedPos := 0
	for i, c := range defined {
		key := strings.ToUpper(c.Name)
		actual, ok := liveIdx[key]
		if !ok {
			drifts = append(drifts, Drift{Column: c.Name, Kind: DriftMissing, Expected: i, Actual: -1})
			continue
		}
		if sharedPos < len(liveShared) && liveShared[sharedPos] != key {
			drifts = append(drifts, Drift{Column: c.Name, Kind: DriftMoved, Expected: i, Actual: actual})
		}
		sharedPos++
	}

	// --- Unexpected, in live order ---
	for i, name := range live {
		if _, ok := definedIdx[strings.ToUpper(name)]; !ok {
			drifts = append(drifts, Drift{Column: name, Kind: DriftUnexpected, Expected: -1, Actual: i})
		}
	}

	return drifts
}
