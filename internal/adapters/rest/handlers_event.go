package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sportmeet/internal/domain"
)

func eventID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.events.ListUpcoming(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, toEventResponses(list))
}

func (s *Server) listMyEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.events.ListMine(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, toEventResponses(list))
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := s.events.CreateEvent(r.Context(), UserID(r.Context()), req.toInput())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created(w, toEventResponse(sum))
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	details, err := s.events.GetEvent(r.Context(), eventID(r), UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, EventDetailsResponse{
		EventResponse: toEventResponse(&details.EventSummary),
		Players:       toPlayerResponses(details.Players),
	})
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventPatchRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := s.events.UpdateEvent(r.Context(), eventID(r), UserID(r.Context()), req.toPatch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, toEventResponse(sum))
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.events.DeleteEvent(r.Context(), eventID(r), UserID(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, nil)
}

func (s *Server) join(w http.ResponseWriter, r *http.Request) {
	status, err := s.participants.Join(r.Context(), eventID(r), UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, statusResponse(status))
}

func (s *Server) leave(w http.ResponseWriter, r *http.Request) {
	if err := s.participants.Leave(r.Context(), eventID(r), UserID(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, nil)
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	status, err := s.participants.GetStatus(r.Context(), eventID(r), UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, statusResponse(status))
}

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.participants.ListRoster(r.Context(), eventID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, toPlayerResponses(players))
}

func (s *Server) reportNoShow(w http.ResponseWriter, r *http.Request) {
	var req NoShowRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.events.ReportNoShow(r.Context(), eventID(r), UserID(r.Context()), req.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, nil)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			s.writeError(w, r, &fieldError{field: "since", tag: "datetime"})
			return
		}
		since = t
	}
	msgs, err := s.chat.ListMessages(r.Context(), eventID(r), since)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, toMessageResponse(&msgs[i]))
	}
	ok(w, out)
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	msg, err := s.chat.PostMessage(r.Context(), eventID(r), UserID(r.Context()), req.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created(w, toMessageResponse(msg))
}

func statusResponse(status domain.Status) StatusResponse {
	if status == "" {
		return StatusResponse{}
	}
	v := string(status)
	return StatusResponse{Status: &v}
}

