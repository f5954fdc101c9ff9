package scraper

import (
	"time"
)

// UnknownDate marks an article whose anchor had no timestamp element nearby.
// Distinct from an absent date (never extracted, e.g. restored from an old
// checkpoint) and from a parsed one.
const UnknownDate = "Unknown date"

// Display and storage layouts for publication dates
const (
	longDateLayout   = "January 2, 2006"
	storedDateLayout = "02.01.2006"
)

// Article represents one discovered archive entry
type Article struct {
	URL   string `json:"url"`
	Date  string `json:"date,omitempty"`
	Title string `json:"title,omitempty"`
}

// ParsedDate returns the publication date as a time value. The second return
// is false when the date is absent, the unknown-date sentinel, or a raw
// display string that never matched the stored layout.
func (a Article) ParsedDate() (time.Time, bool) {
	if a.Date == "" || a.Date == UnknownDate {
		return time.Time{}, false
	}
	t, err := time.Parse(storedDateLayout, a.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
