package email

import (
	"fmt"
	"time"
)

var (
	frenchWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}
	frenchMonths   = [...]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"}
)

// siteLocation is the time zone slots are displayed in. Falls back to UTC
// when the zone database is unavailable.
var siteLocation = loadLocation("Europe/Paris")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatDateTime renders t as "lundi 2 mars 2026 à 10:00" in the site's time zone.
func FormatDateTime(t time.Time) string {
	local := t.In(siteLocation)
	return fmt.Sprintf("%s %d %s %d à %02d:%02d",
		frenchWeekdays[local.Weekday()], local.Day(), frenchMonths[local.Month()-1], local.Year(),
		local.Hour(), local.Minute())
}
