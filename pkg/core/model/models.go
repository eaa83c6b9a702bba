package model

import "slices"

// DateLayout is the format used for volunteer date fields
const DateLayout = "2006-01-02"

// Volunteer represents a member of the volunteer roster
type Volunteer struct {
	ID            string   `json:"id"`
	FirstName     string   `json:"firstName" validate:"notblank"`
	LastName      string   `json:"lastName" validate:"notblank"`
	ContactNumber string   `json:"contactNumber" validate:"notblank"`
	Email         string   `json:"email" validate:"notblank,volunteer_email"`
	Role          string   `json:"role"` // Empty string if no role
	Skills        []string `json:"skills"`
	Active        bool     `json:"active"`
	DateOfBirth   string   `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateJoined    string   `json:"dateJoined,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Clone returns a copy of the volunteer that shares no memory with the original.
// Missing skills become an empty list.
func (v Volunteer) Clone() Volunteer {
	c := v
	c.Skills = slices.Clone(v.Skills)
	if c.Skills == nil {
		c.Skills = []string{}
	}
	return c
}

// HasRole reports whether the volunteer has a role set
func (v Volunteer) HasRole() bool {
	return v.Role != ""
}

// HasAnySkill reports whether the volunteer has at least one of the given skills.
// Matching is exact and case-sensitive.
func (v Volunteer) HasAnySkill(skills []string) bool {
	for _, want := range skills {
		if slices.Contains(v.Skills, want) {
			return true
		}
	}
	return false
}

// SearchQuery describes a roster search. Every search is scoped to one activity state.
type SearchQuery struct {
	Skills []string
	Active bool
	Role   string // Empty string means no role filter
}

// CloneAll deep-copies a slice of volunteers
func CloneAll(volunteers []Volunteer) []Volunteer {
	out := make([]Volunteer, len(volunteers))
	for i, v := range volunteers {
		out[i] = v.Clone()
	}
	return out
}
