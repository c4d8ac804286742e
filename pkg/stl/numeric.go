package stl

import (
	"errors"
	"strconv"
)

// parseVertex reads the three coordinates of a "vertex x y z" line. Leading
// whitespace and letters (the keyword) are skipped; tokens after the third
// are ignored. Numbers follow the C locale whatever the process locale:
// '.' is the only decimal separator and digit grouping is rejected.
func parseVertex(line []byte) (Point3, bool) {
	i := 0
	for i < len(line) && (isSpace(line[i]) || isAlpha(line[i])) {
		i++
	}

	var v [3]float64
	for k := range v {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		j := i
		for j < len(line) && !isSpace(line[j]) {
			j++
		}
		if j == i {
			return Point3{}, false
		}
		f, ok := parseFloat(line[i:j])
		if !ok {
			return Point3{}, false
		}
		v[k] = f
		i = j
	}
	return Point3{v[0], v[1], v[2]}, true
}

func parseFloat(tok []byte) (float64, bool) {
	for _, b := range tok {
		if b == ',' || b == '_' {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(string(tok), 64)
	if err != nil {
		// Overflow keeps the signed infinity, as strtod does.
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}
