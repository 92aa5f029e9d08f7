package ical

import "fmt"

// DeriveUID computes the stable identifier for an event occurrence from its
// title and normalized start. It must stay deterministic across syncs: the
// completed-marks table is keyed by this value, and the events table is fully
// replaced on every sync, so this hash is the only join between the two.
// Not collision-proof; collisions are accepted as a rare risk.
func DeriveUID(summary, start string) string {
	var hash int32
	for _, r := range summary + "_" + start {
		hash = hash*31 + int32(r)
	}
	n := int64(hash)
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("evt_%d", n)
}
