package domain

import "errors"

// Kind classifies a domain error for transports.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidRequest
	KindUnauthorized
	KindForbidden
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidRequest:
		return "invalid_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a domain error with a stable machine code.
type Error struct {
	Kind Kind
	Code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, msg: msg}
}

// Domain errors.
var (
	ErrEventNotFound       = newError(KindNotFound, "event_not_found", "event not found")
	ErrParticipantNotFound = newError(KindNotFound, "participant_not_found", "not a participant of this event")
	ErrUserNotFound        = newError(KindNotFound, "user_not_found", "user not found")
	ErrParticipantExists   = newError(KindConflict, "participant_exists", "already joined this event")
	ErrEmailTaken          = newError(KindConflict, "email_taken", "a user with this email already exists")
	ErrNoShowExists        = newError(KindConflict, "no_show_exists", "no-show already reported")
	ErrOrganizerJoin       = newError(KindInvalidRequest, "organizer_join", "the organizer is already a member of the event")
	ErrOrganizerLeave      = newError(KindInvalidRequest, "organizer_leave", "the organizer cannot leave the event")
	ErrInvalidCapacity     = newError(KindInvalidRequest, "invalid_capacity", "capacity must be a positive integer")
	ErrCannotReduceSlots   = newError(KindInvalidRequest, "cannot_reduce_capacity", "capacity cannot drop below the confirmed player count")
	ErrDateInPast          = newError(KindInvalidRequest, "date_in_past", "the date must not be in the past")
	ErrInvalidTimeRange    = newError(KindInvalidRequest, "invalid_time_range", "start time must be before end time")
	ErrInvalidSkillRange   = newError(KindInvalidRequest, "invalid_skill_range", "minimum skill must not exceed maximum skill")
	ErrUnknownSport        = newError(KindInvalidRequest, "unknown_sport", "unknown sport")
	ErrEventNotEnded       = newError(KindInvalidRequest, "event_not_ended", "the event has not ended yet")
	ErrInvalidMessage      = newError(KindInvalidRequest, "invalid_message", "message must not be empty")
	ErrInvalidRequest      = newError(KindInvalidRequest, "invalid_request", "invalid request")
	ErrInvalidCredentials  = newError(KindUnauthorized, "invalid_credentials", "invalid email or password")
	ErrUnauthorized        = newError(KindUnauthorized, "unauthorized", "authentication required")
	ErrNotOrganizer        = newError(KindForbidden, "not_organizer", "only the organizer can perform this action")
	ErrUnavailable         = newError(KindUnavailable, "unavailable", "storage unavailable")
)

// KindOf returns the Kind of the first domain error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Code returns the machine code of the first domain error in err's chain, or "".
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
