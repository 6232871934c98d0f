package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yotip/homestead/internal/storage/sqlite"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleSignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	acct, err := s.store.CreateAccount(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, sqlite.ErrEmailTaken):
		s.respondError(c, http.StatusConflict, err)
		return
	case errors.Is(err, sqlite.ErrInvalidInput):
		s.respondError(c, http.StatusBadRequest, err)
		return
	case err != nil:
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("account created", slog.String("id", acct.ID))
	respondSuccess(c, http.StatusCreated, acct)
}

func (s *Server) handleSignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	acct, err := s.store.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, sqlite.ErrInvalidCredentials) {
		s.respondError(c, http.StatusUnauthorized, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, acct)
}
