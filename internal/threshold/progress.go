package threshold

import "math"

// Percent converts count against goal to a whole percentage. Only a met
// goal reports 100.
func Percent(count, goal uint32) uint32 {
	if goal == 0 || count >= goal {
		return 100
	}
	return min(uint32(math.Round(float64(count)/float64(goal)*100)), 99)
}
