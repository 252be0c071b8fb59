package model

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are primarily used by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – first name.
//  Surname      – family name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – "user" or "admin".
//  Code         – unique human-readable login code (e.g. USR1700000000).
type User struct {
	ID           int64  // users.id
	Name         string // users.name
	Surname      string // users.surname
	Email        string // users.email
	PasswordHash string // users.password
	Role         string // users.role
	Code         string // users.code
}

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserHours is the aggregation row returned by the admin totals view: one
// user joined with the sum of hours across all their work logs, zero when
// they have none.
type UserHours struct {
	ID         int64   // users.id
	Name       string  // users.name
	Surname    string  // users.surname
	Email      string  // users.email
	TotalHours float64 // COALESCE(SUM(work_logs.hours), 0)
}
