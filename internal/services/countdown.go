package services

import (
	"fmt"
	"time"
)

const ListingEnded = "Listing Ended"

// TimeLeft renders the countdown shown next to a listing. More than two
// whole days out it shows only days; closer in it shows total hours,
// minutes and seconds.
func TimeLeft(end, now time.Time) string {
	remaining := end.Sub(now)
	if remaining <= 0 {
		return ListingEnded
	}

	days := int(remaining / (24 * time.Hour))
	if days > 2 {
		return fmt.Sprintf("Days Left: %d", days)
	}

	hours := int(remaining / time.Hour)
	minutes := int(remaining%time.Hour) / int(time.Minute)
	seconds := int(remaining%time.Minute) / int(time.Second)
	return fmt.Sprintf("Time Left: %dh %dm %ds", hours, minutes, seconds)
}
