package models

import "time"

// User is a credential record in the registry. The username is the registry
// key; LastLogin stays nil until the first successful authentication.
type User struct {
	Username     string     `json:"-" bson:"username"`
	PasswordHash string     `json:"password_hash" bson:"passwordHash"`
	CreatedAt    time.Time  `json:"created_at" bson:"createdAt"`
	LastLogin    *time.Time `json:"last_login" bson:"lastLogin"`
}
