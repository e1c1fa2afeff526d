package domain

import "time"

// DateStampLayout is the format of the date written above each report column
const DateStampLayout = "02/01/2006"

// DateKey returns the calendar day of t in loc as YYYYMMDD
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("20060102")
}

// DateStamp returns the sheet date stamp of t in loc
func DateStamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateStampLayout)
}
