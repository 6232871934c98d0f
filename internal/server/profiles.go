package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yotip/homestead/internal/profile"
	"github.com/yotip/homestead/internal/storage/sqlite"
)

// handleGetProfile returns the stored profile or 404 when the user has none yet.
func (s *Server) handleGetProfile(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}

	p, err := s.store.GetProfile(c.Request.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, errors.New("profile not found"))
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, p)
}

// handleUpsertProfile creates or partially updates a profile. Omitted members
// keep their stored values.
func (s *Server) handleUpsertProfile(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}

	var req profile.Fields
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Username != nil && *req.Username != "" {
		name, err := profile.NormalizeUsername(*req.Username)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		req.Username = &name
	}

	p, err := s.store.UpsertProfile(c.Request.Context(), id, req)
	switch {
	case errors.Is(err, sqlite.ErrUsernameTaken):
		s.respondError(c, http.StatusConflict, err)
		return
	case errors.Is(err, sqlite.ErrInvalidInput):
		s.respondError(c, http.StatusBadRequest, err)
		return
	case err != nil:
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, p)
}

// handleUsernameOwner reports which profile holds a username.
func (s *Server) handleUsernameOwner(c *gin.Context) {
	name, ok := pathParam(c, "name")
	if !ok {
		return
	}

	owner, err := s.store.UsernameOwner(c.Request.Context(), name)
	if errors.Is(err, sqlite.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, errors.New("username not claimed"))
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": owner})
}
