package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Users are provisioned out of band; the API only reads them to
// check credentials.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hash kept in users.password.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           int64     // users.id
	Email        string    // users.email
	PasswordHash string    // users.password
	CreatedAt    time.Time // users.created_at
}
