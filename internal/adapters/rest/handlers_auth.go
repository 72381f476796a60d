package rest

import (
	"net/http"

	"sportmeet/internal/domain"
	"sportmeet/internal/ports/input"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.auth.Register(r.Context(), input.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created(w, toAuthResponse(res))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, toAuthResponse(res))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	p, err := s.auth.Me(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, ProfileResponse{UserResponse: toUserResponse(p.User), Stats: toStatsResponse(p.Stats)})
}

func (s *Server) listSports(w http.ResponseWriter, r *http.Request) {
	locale := s.tr.Match(r.Header.Get("Accept-Language"))
	out := make([]SportResponse, 0, len(domain.Sports))
	for _, id := range domain.Sports {
		out = append(out, SportResponse{ID: id, Name: s.tr.T(locale, "sport."+id, nil)})
	}
	ok(w, out)
}

func toAuthResponse(res *input.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
		User:        toUserResponse(res.User),
	}
}
