package store

import (
	"github.com/google/uuid"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
)

// SeedVolunteers returns the bootstrap roster written on first boot
func SeedVolunteers() []model.Volunteer {
	return []model.Volunteer{
		{
			ID:            uuid.New().String(),
			FirstName:     "Amara",
			LastName:      "Okafor",
			ContactNumber: "07700900101",
			Email:         "amara.okafor@example.org",
			Role:          "Accountant",
			Skills:        []string{"Integrity", "Bookkeeping"},
			Active:        false,
			DateJoined:    "2019-03-10",
		},
		{
			ID:            uuid.New().String(),
			FirstName:     "Daniel",
			LastName:      "Mensah",
			ContactNumber: "07700900102",
			Email:         "daniel.mensah@example.org",
			Role:          "Greeter",
			Skills:        []string{"Warmth", "Hospitality"},
			Active:        true,
			DateJoined:    "2021-06-13",
		},
		{
			ID:            uuid.New().String(),
			FirstName:     "Priya",
			LastName:      "Shah",
			ContactNumber: "07700900103",
			Email:         "priya.shah@example.org",
			Role:          "Youth Leader",
			Skills:        []string{"Mentoring", "Safeguarding"},
			Active:        true,
			DateJoined:    "2022-09-04",
		},
		{
			ID:            uuid.New().String(),
			FirstName:     "Samuel",
			LastName:      "Boateng",
			ContactNumber: "07700900104",
			Email:         "samuel.boateng@example.org",
			Role:          "Sound Technician",
			Skills:        []string{"Audio", "Lighting"},
			Active:        false,
			DateJoined:    "2018-11-25",
		},
		{
			ID:            uuid.New().String(),
			FirstName:     "Ruth",
			LastName:      "Adeyemi",
			ContactNumber: "07700900105",
			Email:         "ruth.adeyemi@example.org",
			Role:          "Hospitality Coordinator",
			Skills:        []string{"Cooking", "Hospitality", "Warmth"},
			Active:        true,
			DateJoined:    "2023-01-15",
		},
	}
}
