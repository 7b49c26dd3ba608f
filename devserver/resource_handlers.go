package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jrsteele09/go-church-admin/internal/errors"
)

func (s *Server) listHandler(c *Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, c.List(), "")
	}
}

func (s *Server) getHandler(c *Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := c.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeData(w, http.StatusOK, item, "")
	}
}

func (s *Server) createHandler(c *Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := decodeItem(w, r)
		if !ok {
			return
		}
		writeData(w, http.StatusCreated, c.Create(item), "Created successfully")
	}
}

func (s *Server) updateHandler(c *Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := decodeItem(w, r)
		if !ok {
			return
		}
		item, err := c.Update(chi.URLParam(r, "id"), fields)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeData(w, http.StatusOK, item, "Updated successfully")
	}
}

func (s *Server) deleteHandler(c *Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.Delete(chi.URLParam(r, "id")); err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeData(w, http.StatusOK, nil, "Deleted successfully")
	}
}

// deleteUserHandler removes a user directory entry together with its login
// account.
func (s *Server) deleteUserHandler(c *Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		item, err := c.Get(id)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		if err := c.Delete(id); err != nil {
			s.writeStoreError(w, err)
			return
		}
		if email, _ := item["email"].(string); email != "" {
			if err := s.users.Delete(email); err != nil && !errors.Is(err, errors.ErrUserNotFound) {
				s.writeStoreError(w, err)
				return
			}
			s.logger.Info().Str("email", email).Msg("login account removed")
		}
		writeData(w, http.StatusOK, nil, "Deleted successfully")
	}
}

func decodeItem(w http.ResponseWriter, r *http.Request) (Item, bool) {
	var item Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item == nil {
		writeError(w, http.StatusBadRequest, "Request body must be a JSON object")
		return nil, false
	}
	return item, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, errors.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	s.logger.Error().Err(err).Msg("store operation failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
