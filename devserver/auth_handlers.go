package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-church-admin/internal/errors"
	"github.com/jrsteele09/go-church-admin/token"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Role  token.Role `json:"role"`
}

type loginResponse struct {
	Message      string    `json:"message"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	User         loginUser `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := s.users.GetByEmail(req.Email)
		if err != nil || !user.Active() || !user.CheckPassword(req.Password) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		access, err := s.creator.CreateAccessToken(user.Identity())
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("creating access token")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		refreshToken, err := s.refresh.Create(user.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("creating refresh token")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := s.users.SetLastLogin(user.Email, token.NowTimeFunc()); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("recording last login")
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Message:      "Login successful",
			Token:        access,
			RefreshToken: refreshToken,
			User:         loginUser{ID: user.ID, Email: user.Email, Role: user.Role},
		})
	}
}

// RefreshHandler rotates a refresh token. The presented token is consumed
// whether or not it is still valid.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.RefreshToken == "" {
			writeError(w, http.StatusUnauthorized, "Refresh token required")
			return
		}

		stored, next, err := s.refresh.Rotate(req.RefreshToken)
		switch {
		case errors.Is(err, errors.ErrInvalidRefreshToken), errors.Is(err, errors.ErrRefreshTokenExpired):
			writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		case err != nil:
			s.logger.Error().Err(err).Msg("rotating refresh token")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := s.users.GetByID(stored.UserID)
		if err != nil || !user.Active() {
			_ = s.refresh.Delete(next)
			writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}

		access, err := s.creator.CreateAccessToken(user.Identity())
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("creating access token")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, refreshResponse{Token: access, RefreshToken: next})
	}
}

// MeHandler returns the identity carried by the caller's access token.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		writeData(w, http.StatusOK, loginUser{ID: claims.SubjectID, Email: claims.Email, Role: claims.Role}, "")
	}
}
