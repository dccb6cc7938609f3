// Package models defines the core data structures for credentials and user profiles.
package models

import "time"

// Credential is a stored email and password hash pair used for sign-in.
type Credential struct {
	// Email is the unique login key.
	Email string
	// Hash is the bcrypt hash of the user's password.
	Hash string
}

// Profile holds user metadata and the image entries counter.
type Profile struct {
	// ID is the generated primary key of the profile.
	ID int64 `json:"id"`
	// Name is the display name given at registration.
	Name string `json:"name"`
	// Email links the profile to its credential record.
	Email string `json:"email"`
	// Entries counts submitted images. It only ever grows.
	Entries int64 `json:"entries"`
	// Joined is the registration timestamp.
	Joined time.Time `json:"joined"`
}
