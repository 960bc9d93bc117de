// Package mathutil holds small numeric helpers shared by the KPI sources.
package mathutil

import "math"

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
