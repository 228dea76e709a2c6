package tests

import "strconv"

func jsonFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
