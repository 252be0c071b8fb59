package model

// Removal request lifecycle: created as pending, decided exactly once by
// an admin and never re-opened afterwards.
const (
	RemovalPending  = "pending"
	RemovalAccepted = "accepted"
	RemovalRejected = "rejected"
)

// RemovalRequest models a user's request to retract a previously logged
// work entry, stored in the `removal_requests` table.  AdminID,
// AdminReason and DecisionDate stay empty until an admin decides.
type RemovalRequest struct {
	ID           int64  // removal_requests.id
	WorkLogID    int64  // removal_requests.work_log_id
	RequesterID  int64  // removal_requests.requester_id
	Reason       string // removal_requests.reason
	Status       string // removal_requests.status
	AdminID      int64  // removal_requests.admin_id (0 while pending)
	AdminReason  string // removal_requests.admin_reason
	RequestDate  string // removal_requests.request_date
	DecisionDate string // removal_requests.decision_date
}

// PendingRemoval is the join row shown to admins: the request plus a
// snapshot of the targeted work log's date and hours, so the admin table
// renders without a second fetch.
type PendingRemoval struct {
	RemovalRequest
	WorkDate string  // work_logs.date of the targeted log
	Hours    float64 // work_logs.hours of the targeted log
}
