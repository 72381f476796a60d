package rest

import (
	"net/http"

	"sportmeet/internal/ports/input"
)

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.profile.GetStats(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, toStatsResponse(st))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfilePatchRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.profile.UpdateProfile(r.Context(), UserID(r.Context()), input.ProfilePatch{
		Name:      req.Name,
		PhotoURL:  req.PhotoURL,
		Location:  req.Location,
		Language:  req.Language,
		DiscordID: req.DiscordID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, toUserResponse(user))
}

func (s *Server) savePushToken(w http.ResponseWriter, r *http.Request) {
	var req PushTokenRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.profile.SavePushToken(r.Context(), UserID(r.Context()), req.DeviceToken, req.Platform); err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, nil)
}
