package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
)

func (s *Server) createVolunteer(c *gin.Context) {
	var body model.Volunteer
	if err := c.ShouldBindJSON(&body); err != nil {
		s.logger.Debug("Cannot parse create request", zap.Error(err))
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest)
		return
	}

	created, err := s.service.CreateVolunteer(c.Request.Context(), body)
	if err != nil {
		s.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) getAllVolunteers(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.GetAllVolunteers())
}

func (s *Server) getVolunteer(c *gin.Context) {
	volunteer, err := s.service.GetVolunteerByID(c.Param("id"))
	if err != nil {
		s.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, volunteer)
}

func (s *Server) updateVolunteer(c *gin.Context) {
	var patch model.Volunteer
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.logger.Debug("Cannot parse update request", zap.Error(err))
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest)
		return
	}

	updated, err := s.service.UpdateVolunteer(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteVolunteer(c *gin.Context) {
	if err := s.service.DeleteVolunteer(c.Request.Context(), c.Param("id")); err != nil {
		s.abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// searchVolunteers handles GET /api/volunteers/search?skills=&isActive=&role=
// skills may be repeated or comma-separated. A missing isActive means false.
func (s *Server) searchVolunteers(c *gin.Context) {
	q := model.SearchQuery{
		Skills: parseSkills(c.QueryArray("skills")),
		Role:   strings.TrimSpace(c.Query("role")),
	}

	if raw := c.Query("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
			return
		}
		q.Active = active
	}

	c.JSON(http.StatusOK, s.service.SearchVolunteers(q))
}

func parseSkills(values []string) []string {
	skills := make([]string, 0, len(values))
	for _, value := range values {
		for _, skill := range strings.Split(value, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				skills = append(skills, skill)
			}
		}
	}
	return skills
}
