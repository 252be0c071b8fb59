package model

// WorkLog models one logged block of worked hours in the `work_logs`
// table.  Rows are owned by the user that created them and only disappear
// when an admin accepts a removal request targeting them.
//
// Fields:
//  ID     – primary key identifier.
//  UserID – owner of the log (references users.id, no FK cascade).
//  Date   – textual timestamp of when the hours were logged.
//  Hours  – amount of worked hours, free-form non-negative real.
//  Reason – free text supplied by the user.
type WorkLog struct {
	ID     int64   // work_logs.id
	UserID int64   // work_logs.user_id
	Date   string  // work_logs.date
	Hours  float64 // work_logs.hours
	Reason string  // work_logs.reason
}
