package rest

import (
	"time"

	"sportmeet/internal/domain/entities"
	"sportmeet/internal/ports/input"
	"sportmeet/pkg/tz"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
	Location string `json:"location" validate:"max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type EventRequest struct {
	SportID          string `json:"sportId" validate:"required"`
	VenueID          string `json:"venueId" validate:"max=64"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeStart        string `json:"timeStart" validate:"required,datetime=15:04"`
	TimeEnd          string `json:"timeEnd" validate:"required,datetime=15:04"`
	PlaceName        string `json:"placeName" validate:"required,max=200"`
	ReservationType  string `json:"reservationType"`
	PlayerCountTotal int    `json:"playerCountTotal"`
	SkillMin         int    `json:"skillMin"`
	SkillMax         int    `json:"skillMax"`
	Description      string `json:"description" validate:"max=2000"`
}

func (r EventRequest) toInput() input.EventInput {
	return input.EventInput{
		SportID:          r.SportID,
		VenueID:          r.VenueID,
		Date:             r.Date,
		TimeStart:        r.TimeStart,
		TimeEnd:          r.TimeEnd,
		PlaceName:        r.PlaceName,
		ReservationType:  r.ReservationType,
		PlayerCountTotal: r.PlayerCountTotal,
		SkillMin:         r.SkillMin,
		SkillMax:         r.SkillMax,
		Description:      r.Description,
	}
}

type EventPatchRequest struct {
	SportID          *string `json:"sportId"`
	VenueID          *string `json:"venueId" validate:"omitempty,max=64"`
	Date             *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	TimeStart        *string `json:"timeStart" validate:"omitempty,datetime=15:04"`
	TimeEnd          *string `json:"timeEnd" validate:"omitempty,datetime=15:04"`
	PlaceName        *string `json:"placeName" validate:"omitempty,max=200"`
	ReservationType  *string `json:"reservationType"`
	PlayerCountTotal *int    `json:"playerCountTotal"`
	SkillMin         *int    `json:"skillMin"`
	SkillMax         *int    `json:"skillMax"`
	Description      *string `json:"description" validate:"omitempty,max=2000"`
}

func (r EventPatchRequest) toPatch() input.EventPatch {
	return input.EventPatch{
		SportID:          r.SportID,
		VenueID:          r.VenueID,
		Date:             r.Date,
		TimeStart:        r.TimeStart,
		TimeEnd:          r.TimeEnd,
		PlaceName:        r.PlaceName,
		ReservationType:  r.ReservationType,
		PlayerCountTotal: r.PlayerCountTotal,
		SkillMin:         r.SkillMin,
		SkillMax:         r.SkillMax,
		Description:      r.Description,
	}
}

type NoShowRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type MessageRequest struct {
	Message string `json:"message"`
}

type ProfilePatchRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=100"`
	PhotoURL  *string `json:"photoUrl" validate:"omitempty,url"`
	Location  *string `json:"location" validate:"omitempty,max=200"`
	Language  *string `json:"language" validate:"omitempty,oneof=cs en"`
	DiscordID *string `json:"discordId" validate:"omitempty,numeric,max=32"`
}

type PushTokenRequest struct {
	DeviceToken string `json:"deviceToken" validate:"required,max=512"`
	Platform    string `json:"platform" validate:"required,oneof=ios android web"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	Location  string    `json:"location,omitempty"`
	Language  string    `json:"language"`
	DiscordID string    `json:"discordId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *entities.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		PhotoURL:  u.PhotoURL,
		Location:  u.Location,
		Language:  u.Language,
		DiscordID: u.DiscordID,
		CreatedAt: u.CreatedAt,
	}
}

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

type StatsResponse struct {
	TotalGames int `json:"totalGames"`
	TotalHours int `json:"totalHours"`
	NoShows    int `json:"noShows"`
}

func toStatsResponse(s entities.UserStats) StatsResponse {
	return StatsResponse{TotalGames: s.TotalGames, TotalHours: s.TotalHours, NoShows: s.NoShows}
}

type ProfileResponse struct {
	UserResponse
	Stats StatsResponse `json:"stats"`
}

type SportResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EventResponse struct {
	ID               string    `json:"id"`
	OrganizerID      string    `json:"organizerId"`
	OrganizerName    string    `json:"organizerName"`
	SportID          string    `json:"sportId"`
	VenueID          string    `json:"venueId,omitempty"`
	Date             string    `json:"date"`
	TimeStart        string    `json:"timeStart"`
	TimeEnd          string    `json:"timeEnd"`
	PlaceName        string    `json:"placeName"`
	ReservationType  string    `json:"reservationType"`
	PlayerCountTotal int       `json:"playerCountTotal"`
	SkillMin         int       `json:"skillMin"`
	SkillMax         int       `json:"skillMax"`
	Description      string    `json:"description,omitempty"`
	ConfirmedCount   int       `json:"confirmedCount"`
	WaitingCount     int       `json:"waitingCount"`
	IsMine           bool      `json:"isMine"`
	MyStatus         *string   `json:"myStatus"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toEventResponse(s *entities.EventSummary) EventResponse {
	resp := EventResponse{
		ID:               s.ID,
		OrganizerID:      s.OrganizerID,
		OrganizerName:    s.OrganizerName,
		SportID:          s.SportID,
		VenueID:          s.VenueID,
		Date:             s.Date.In(tz.Prague).Format(time.DateOnly),
		TimeStart:        s.TimeStart,
		TimeEnd:          s.TimeEnd,
		PlaceName:        s.PlaceName,
		ReservationType:  s.ReservationType,
		PlayerCountTotal: s.PlayerCountTotal,
		SkillMin:         s.SkillMin,
		SkillMax:         s.SkillMax,
		Description:      s.Description,
		ConfirmedCount:   s.ConfirmedCount,
		WaitingCount:     s.WaitingCount,
		IsMine:           s.IsMine,
		CreatedAt:        s.CreatedAt,
	}
	if s.MyStatus != "" {
		status := s.MyStatus
		resp.MyStatus = &status
	}
	return resp
}

func toEventResponses(list []entities.EventSummary) []EventResponse {
	out := make([]EventResponse, 0, len(list))
	for i := range list {
		out = append(out, toEventResponse(&list[i]))
	}
	return out
}

type PlayerResponse struct {
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName"`
	Status          string    `json:"status"`
	WaitingPosition *int      `json:"waitingPosition"`
	JoinedAt        time.Time `json:"joinedAt"`
}

func toPlayerResponses(players []entities.Participant) []PlayerResponse {
	out := make([]PlayerResponse, 0, len(players))
	for _, p := range players {
		resp := PlayerResponse{
			UserID:   p.UserID,
			UserName: p.UserName,
			Status:   string(p.Status),
			JoinedAt: p.JoinedAt,
		}
		if p.IsWaiting() {
			pos := p.WaitingPosition
			resp.WaitingPosition = &pos
		}
		out = append(out, resp)
	}
	return out
}

type EventDetailsResponse struct {
	EventResponse
	Players []PlayerResponse `json:"players"`
}

// StatusResponse answers join and status queries; Status is null when the
// user holds no active participation.
type StatusResponse struct {
	Status *string `json:"status"`
}

type MessageResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	UserPhotoURL string    `json:"userPhotoUrl,omitempty"`
	Message      string    `json:"message"`
	SentAt       time.Time `json:"sentAt"`
}

func toMessageResponse(m *entities.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:           m.ID,
		EventID:      m.EventID,
		UserID:       m.UserID,
		UserName:     m.UserName,
		UserPhotoURL: m.UserPhotoURL,
		Message:      m.Message,
		SentAt:       m.SentAt,
	}
}
