package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// localDateRe matches the dispatch portal's timestamp format, e.g.
// "12/01/2026 08:30:54 p.m." (day/month/year, 12-hour clock).
var localDateRe = regexp.MustCompile(`(?i)(\d{2})/(\d{2})/(\d{4})\s+(\d{1,2}):(\d{2}):(\d{2})\s+(a\.m\.|p\.m\.)`)

// peruTZ is the fixed UTC-5 offset both upstream portals report times in.
// Peru does not observe daylight saving.
var peruTZ = time.FixedZone("PET", -5*60*60)

// ParseLocalDate converts a portal timestamp to a UTC instant. The second
// return reports whether the input matched the expected pattern: on a
// mismatch the current instant is substituted instead of failing, and false
// lets callers tell real timestamps from fallbacks.
func ParseLocalDate(value string) (time.Time, bool) {
	m := localDateRe.FindStringSubmatch(value)
	if m == nil {
		return clock.Now().UTC(), false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	mins, _ := strconv.Atoi(m[5])
	secs, _ := strconv.Atoi(m[6])

	meridiem := strings.ToLower(m[7])
	if strings.HasPrefix(meridiem, "p") && hour != 12 {
		hour += 12
	} else if strings.HasPrefix(meridiem, "a") && hour == 12 {
		hour = 0
	}

	return time.Date(year, time.Month(month), day, hour, mins, secs, 0, peruTZ).UTC(), true
}
