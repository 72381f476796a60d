// Package roster holds the capacity and waiting-list rules of one event.
//
// A Roster is built from the participation rows read under the event lock.
// Join, Leave and Resize mutate the in-memory roster and return the Changes
// the caller must persist in the same transaction.
package roster

import (
	"sort"
	"time"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
)

// Changes lists the row writes produced by one roster operation.
type Changes struct {
	Insert *entities.Participant
	Delete *entities.Participant
	// Updates carries status and position rewrites, promotions first.
	Updates []entities.Participant
	// Promoted are the users moved from waiting to confirmed.
	Promoted []entities.Participant
}

// Empty reports whether nothing has to be written.
func (c Changes) Empty() bool {
	return c.Insert == nil && c.Delete == nil && len(c.Updates) == 0
}

type Roster struct {
	eventID     string
	organizerID string
	capacity    int
	members     []entities.Participant
}

// New builds a roster for event from all of its participation rows.
func New(event *entities.Event, rows []entities.Participant) *Roster {
	members := make([]entities.Participant, len(rows))
	copy(members, rows)
	return &Roster{
		eventID:     event.ID,
		organizerID: event.OrganizerID,
		capacity:    event.PlayerCountTotal,
		members:     members,
	}
}

func (r *Roster) Capacity() int { return r.capacity }

func (r *Roster) ConfirmedCount() int {
	n := 0
	for i := range r.members {
		if r.members[i].IsConfirmed() {
			n++
		}
	}
	return n
}

func (r *Roster) WaitingCount() int {
	n := 0
	for i := range r.members {
		if r.members[i].IsWaiting() {
			n++
		}
	}
	return n
}

// Status returns the user's active status, or "" when absent.
func (r *Roster) Status(userID string) domain.Status {
	if i := r.index(userID); i >= 0 && r.members[i].Status.Active() {
		return r.members[i].Status
	}
	return ""
}

// Ordered returns the active members: confirmed by join time, then waiting by position.
func (r *Roster) Ordered() []entities.Participant {
	out := make([]entities.Participant, 0, len(r.members))
	for _, p := range r.members {
		if p.Status.Active() {
			out = append(out, p)
		}
	}
	SortRoster(out)
	return out
}

// SortRoster orders participants confirmed first, then waiting by position.
func SortRoster(ps []entities.Participant) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if a.Status != b.Status {
			return rank(a.Status) < rank(b.Status)
		}
		if a.IsWaiting() && a.WaitingPosition != b.WaitingPosition {
			return a.WaitingPosition < b.WaitingPosition
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.ID < b.ID
	})
}

func rank(s domain.Status) int {
	switch s {
	case domain.StatusConfirmed:
		return 0
	case domain.StatusWaiting:
		return 1
	default:
		return 2
	}
}

func (r *Roster) index(userID string) int {
	for i := range r.members {
		if r.members[i].UserID == userID {
			return i
		}
	}
	return -1
}

// Join admits userID. The new participant is confirmed while a slot is free,
// otherwise it is appended to the waiting list. A removed record is reactivated
// at the tail of the waiting list regardless of free slots.
func (r *Roster) Join(id, userID string, now time.Time) (entities.Participant, Changes, error) {
	if userID == r.organizerID {
		return entities.Participant{}, Changes{}, domain.ErrOrganizerJoin
	}

	var ch Changes
	if i := r.index(userID); i >= 0 {
		p := &r.members[i]
		if p.Status.Active() {
			return entities.Participant{}, Changes{}, domain.ErrParticipantExists
		}
		p.Status, p.WaitingPosition = domain.StatusWaiting, r.maxWaitingPosition()+1
		ch.Updates = append(ch.Updates, *p)
		return *p, ch, nil
	}

	p := entities.Participant{
		ID:       id,
		EventID:  r.eventID,
		UserID:   userID,
		JoinedAt: now,
	}
	p.Status, p.WaitingPosition = r.admission()
	r.members = append(r.members, p)
	ch.Insert = &p
	return p, ch, nil
}

func (r *Roster) admission() (domain.Status, int) {
	if r.ConfirmedCount() < r.capacity {
		return domain.StatusConfirmed, 0
	}
	return domain.StatusWaiting, r.maxWaitingPosition() + 1
}

func (r *Roster) maxWaitingPosition() int {
	highest := 0
	for i := range r.members {
		if r.members[i].IsWaiting() && r.members[i].WaitingPosition > highest {
			highest = r.members[i].WaitingPosition
		}
	}
	return highest
}

// Leave removes userID. A confirmed leaver frees a slot for the head of the
// waiting list; the waiting list is then renumbered densely from 1.
func (r *Roster) Leave(userID string) (entities.Participant, Changes, error) {
	if userID == r.organizerID {
		return entities.Participant{}, Changes{}, domain.ErrOrganizerLeave
	}
	i := r.index(userID)
	if i < 0 || !r.members[i].Status.Active() {
		return entities.Participant{}, Changes{}, domain.ErrParticipantNotFound
	}

	left := r.members[i]
	r.members = append(r.members[:i], r.members[i+1:]...)

	ch := Changes{Delete: &left}
	if left.IsConfirmed() {
		ch.Promoted = r.promote(1)
	}
	ch.Updates = r.renumber(ch.Promoted)
	return left, ch, nil
}

// Resize changes the capacity. Growing promotes from the head of the waiting
// list; shrinking below the confirmed count is rejected.
func (r *Roster) Resize(capacity int) (Changes, error) {
	if capacity < 1 {
		return Changes{}, domain.ErrInvalidCapacity
	}
	if capacity < r.ConfirmedCount() {
		return Changes{}, domain.ErrCannotReduceSlots
	}
	r.capacity = capacity

	var ch Changes
	ch.Promoted = r.promote(r.capacity - r.ConfirmedCount())
	ch.Updates = r.renumber(ch.Promoted)
	return ch, nil
}

// promote confirms up to n waiting members with the lowest positions.
func (r *Roster) promote(n int) []entities.Participant {
	var promoted []entities.Participant
	for ; n > 0; n-- {
		head := -1
		for i := range r.members {
			if !r.members[i].IsWaiting() {
				continue
			}
			if head < 0 || less(r.members[i], r.members[head]) {
				head = i
			}
		}
		if head < 0 {
			break
		}
		r.members[head].Status = domain.StatusConfirmed
		r.members[head].WaitingPosition = 0
		promoted = append(promoted, r.members[head])
	}
	return promoted
}

// renumber rewrites waiting positions to 1..k in queue order and returns the
// promoted rows followed by every waiting row whose position changed.
func (r *Roster) renumber(promoted []entities.Participant) []entities.Participant {
	updates := append([]entities.Participant(nil), promoted...)

	waiting := make([]int, 0, len(r.members))
	for i := range r.members {
		if r.members[i].IsWaiting() {
			waiting = append(waiting, i)
		}
	}
	sort.SliceStable(waiting, func(a, b int) bool {
		return less(r.members[waiting[a]], r.members[waiting[b]])
	})
	for pos, i := range waiting {
		if r.members[i].WaitingPosition != pos+1 {
			r.members[i].WaitingPosition = pos + 1
			updates = append(updates, r.members[i])
		}
	}
	return updates
}

func less(a, b entities.Participant) bool {
	if a.WaitingPosition != b.WaitingPosition {
		return a.WaitingPosition < b.WaitingPosition
	}
	if !a.JoinedAt.Equal(b.JoinedAt) {
		return a.JoinedAt.Before(b.JoinedAt)
	}
	return a.ID < b.ID
}
