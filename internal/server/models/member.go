// Package models holds the directory server's persistent types.
package models

import "time"

// Member is one row of the members table.
type Member struct {
	ID             string
	Email          string
	CredentialHash string
	GivenName      string
	FamilyName     string
	Phone          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfilePatch names the profile columns to overwrite. Nil leaves the
// column untouched.
type ProfilePatch struct {
	GivenName  *string
	FamilyName *string
	Phone      *string
}

func (p ProfilePatch) Empty() bool {
	return p.GivenName == nil && p.FamilyName == nil && p.Phone == nil
}
