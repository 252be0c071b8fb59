package utils

import "time"

// TimeLayout is the textual timestamp format stored in every TEXT date
// column (work_logs.date, removal_requests.*_date, bacheca last_modified).
const TimeLayout = "2006-01-02 15:04:05"

// NowStamp returns the current server time formatted with TimeLayout.
func NowStamp() string {
	return time.Now().Format(TimeLayout)
}

// StampEpoch converts a stored timestamp back to Unix seconds.  It is used
// to build the ?v= cache-busting token on asset URLs.  An empty or
// malformed stamp falls back to the current time, matching how a row with
// no last_modified is treated as "changed now".
func StampEpoch(stamp string) int64 {
	if stamp == "" {
		return time.Now().Unix()
	}
	t, err := time.ParseInLocation(TimeLayout, stamp, time.Local)
	if err != nil {
		return time.Now().Unix()
	}
	return t.Unix()
}
