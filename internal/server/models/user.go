// Package models defines the persistent entities of taskkeeper.
package models

import "time"

// User is an account identity. Email is unique (matched case-sensitively, as
// stored) and PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
