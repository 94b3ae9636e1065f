package chat

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayouts are tried in order and the first that parses wins.
// Day-first layouts come before month-first ones, so an ambiguous date such
// as 03/04/23 resolves to 3 April. Exports carry no locale hint, so this
// cannot be decided from the transcript alone.
var TimestampLayouts = []string{
	"2/1/06 15:04:05",
	"2/1/2006 15:04:05",
	"2/1/06 15:04",
	"2/1/2006 15:04",
	"1/2/06 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/06 15:04",
	"1/2/2006 15:04",
}

// ParseTimestamp combines the date and clock tokens of a message line and
// parses them against TimestampLayouts. Dash-separated dates are accepted.
func ParseTimestamp(date, clock string) (time.Time, error) {
	value := strings.TrimSpace(strings.ReplaceAll(date, "-", "/") + " " + clock)
	for _, layout := range TimestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches timestamp %q", value)
}
