package query

import "github.com/jakechorley/volunteer-roster/pkg/core/model"

// Search returns the volunteers matching the query, preserving input order.
// A volunteer matches when:
// - its active flag equals query.Active
// - query.Skills is empty, or it shares at least one skill with query.Skills
// - query.Role is empty, or its role equals query.Role exactly
func Search(volunteers []model.Volunteer, q model.SearchQuery) []model.Volunteer {
	results := make([]model.Volunteer, 0)
	for _, v := range volunteers {
		if matches(v, q) {
			results = append(results, v)
		}
	}
	return results
}

func matches(v model.Volunteer, q model.SearchQuery) bool {
	if v.Active != q.Active {
		return false
	}

	if len(q.Skills) > 0 && !v.HasAnySkill(q.Skills) {
		return false
	}

	if q.Role != "" {
		// A volunteer without a role never matches a role filter
		if !v.HasRole() {
			return false
		}
		if v.Role != q.Role {
			return false
		}
	}

	return true
}
