package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
)

// Column headers in the volunteer sheet
const (
	colID            = "Unique ID"
	colFirstName     = "First name"
	colLastName      = "Last name"
	colContactNumber = "Contact number"
	colEmail         = "Email"
	colRole          = "Role"
	colSkills        = "Skills"
	colActive        = "Active"
	colDateOfBirth   = "Date of birth"
	colDateJoined    = "Date joined"
)

// requiredColumns must appear in the header row. Other columns are read when present.
var requiredColumns = []string{colFirstName, colLastName, colContactNumber, colEmail}

// ListVolunteers reads the volunteers tab of the given spreadsheet. Rows are
// returned as written in the sheet, without validation.
func (c *Client) ListVolunteers(ctx context.Context, spreadsheetID, tab string) ([]model.Volunteer, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	volunteers, err := parseVolunteers(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse volunteers: %w", err)
	}

	return volunteers, nil
}

// parseVolunteers converts raw spreadsheet data into volunteers. Rows with no
// first name are skipped.
func parseVolunteers(raw [][]interface{}) ([]model.Volunteer, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	columns := make(map[string]int)
	for i, cell := range raw[0] {
		if name, ok := cell.(string); ok {
			columns[strings.TrimSpace(name)] = i
		}
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required field in header: %s", name)
		}
	}

	cell := func(row []interface{}, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		if s, ok := row[i].(string); ok {
			return strings.TrimSpace(s)
		}
		return strings.TrimSpace(fmt.Sprint(row[i]))
	}

	volunteers := make([]model.Volunteer, 0, len(raw)-1)
	for _, row := range raw[1:] {
		firstName := cell(row, colFirstName)
		if firstName == "" {
			continue
		}

		volunteers = append(volunteers, model.Volunteer{
			ID:            cell(row, colID),
			FirstName:     firstName,
			LastName:      cell(row, colLastName),
			ContactNumber: cell(row, colContactNumber),
			Email:         cell(row, colEmail),
			Role:          cell(row, colRole),
			Skills:        splitSkills(cell(row, colSkills)),
			Active:        parseActive(cell(row, colActive)),
			DateOfBirth:   cell(row, colDateOfBirth),
			DateJoined:    cell(row, colDateJoined),
		})
	}

	return volunteers, nil
}

func splitSkills(s string) []string {
	skills := []string{}
	for _, skill := range strings.Split(s, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

// parseActive accepts the spellings used in the sheet's Active column
func parseActive(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "active", "1":
		return true
	default:
		return false
	}
}
