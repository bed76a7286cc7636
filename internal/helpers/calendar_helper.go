package helpers

import (
	"fmt"
	"net/url"
	"time"
)

// calendarTimestampLayout is the compact form Google Calendar expects:
// an ISO-8601 UTC instant with dashes, colons and the zone marker removed.
const calendarTimestampLayout = "20060102T150405"

// GoogleCalendarURL builds a calendar render-template deep link for an
// event. The result is pure; opening it is up to the caller.
func GoogleCalendarURL(title, description, location string, start, end time.Time) string {
	return fmt.Sprintf(
		"https://www.google.com/calendar/render?action=TEMPLATE&text=%s&details=%s&location=%s&dates=%s/%s",
		url.QueryEscape(title),
		url.QueryEscape(description),
		url.QueryEscape(location),
		start.UTC().Format(calendarTimestampLayout),
		end.UTC().Format(calendarTimestampLayout),
	)
}
