package devserver

import (
	"github.com/go-chi/chi/v5"

	"github.com/jrsteele09/go-church-admin/resources"
)

func (s *Server) initRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.RecoverMiddleware, s.LoggingMiddleware)

	r.Route(RouteAPIPrefix, func(r chi.Router) {
		r.Post(RouteAuthLogin, s.LoginHandler())
		r.Post(RouteAuthRefresh, s.RefreshHandler())

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)
			r.Get(RouteAuthMe, s.MeHandler())

			userKind, _ := resources.LookupKind("users")
			r.With(s.RequireRole(userKind.CanRead)).Get(RouteUserList, s.listHandler(s.store.Collection(userKind.Name)))

			for _, name := range resources.KindNames() {
				kind, _ := resources.LookupKind(name)
				s.resourceRoutes(r, kind)
			}
		})
	})
	return r
}

func (s *Server) resourceRoutes(r chi.Router, kind resources.Kind) {
	c := s.store.Collection(kind.Name)
	read := s.RequireRole(kind.CanRead)
	manage := s.RequireRole(kind.CanManage)

	r.With(read).Get(kind.Path, s.listHandler(c))
	r.With(read).Get(kind.Path+"/{id}", s.getHandler(c))
	r.With(manage).Post(kind.Path, s.createHandler(c))
	r.With(manage).Put(kind.Path+"/{id}", s.updateHandler(c))
	if kind.Name == "users" {
		r.With(manage).Delete(kind.Path+"/{id}", s.deleteUserHandler(c))
		return
	}
	r.With(manage).Delete(kind.Path+"/{id}", s.deleteHandler(c))
}
