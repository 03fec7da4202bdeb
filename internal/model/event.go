package model

import "time"

// Event represents a campus event with its full registration state.
// The registration slices are always non-nil once an event has been
// through EnsureState; a nil slice means the record predates the field.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Department  string    `json:"department"`
	Organizer   string    `json:"organizer"`
	Image       *string   `json:"image,omitempty"`
	Tags        []string  `json:"tags,omitempty"`

	// MaxAttendees is the hard capacity of the registered list. Always >= 1.
	MaxAttendees int `json:"max_attendees"`

	// Registration state. RegisteredUsers is capped at MaxAttendees and
	// ordered by registration time. Waitlist is strict FIFO and unbounded.
	// A user ID appears in at most one of the two lists.
	RegisteredUsers []Attendee `json:"registered_users"`
	Waitlist        []Attendee `json:"waitlist"`

	// RSVPConfirmed and CheckedIn hold user IDs and are subsets of
	// RegisteredUsers. Bookmarks is independent of registration.
	RSVPConfirmed []string `json:"rsvp_confirmed"`
	CheckedIn     []string `json:"checked_in"`
	Bookmarks     []string `json:"bookmarks"`

	// Version increments on every registration-state write. Storage updates
	// are conditional on the expected version.
	Version int `json:"version"`

	CreatedBy string    `json:"created_by"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Attendee is a registration entry on an event's registered or waitlist.
type Attendee struct {
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegistrationStatus values describe a user's relationship to an event.
const (
	RegistrationStatusAvailable  = "available"
	RegistrationStatusRegistered = "registered"
	RegistrationStatusWaitlisted = "waitlisted"
	// RegistrationStatusClosed is reported when the event is full and the
	// user holds no spot, and for events that do not exist, so callers
	// render a non-actionable state instead of a signup button.
	RegistrationStatusClosed = "closed"
)

// RegisterOutcome values for Register.
const (
	RegisterOutcomeRegistered = "registered"
	RegisterOutcomeWaitlisted = "waitlisted"
)

// CheckInOutcome values for CheckIn, in precedence order.
const (
	CheckInOutcomeNotFound      = "not-found"
	CheckInOutcomeNotRegistered = "not-registered"
	CheckInOutcomeAlready       = "already"
	CheckInOutcomeSuccess       = "success"
)

// WaitlistPositionNone is the sentinel returned when a user is not waitlisted.
const WaitlistPositionNone = -1

// MinAttendees is the smallest allowed capacity.
const MinAttendees = 1

// EnsureState normalizes nil registration slices to empty ones so that
// every code path can append without nil checks.
func (e *Event) EnsureState() {
	if e.RegisteredUsers == nil {
		e.RegisteredUsers = []Attendee{}
	}
	if e.Waitlist == nil {
		e.Waitlist = []Attendee{}
	}
	if e.RSVPConfirmed == nil {
		e.RSVPConfirmed = []string{}
	}
	if e.CheckedIn == nil {
		e.CheckedIn = []string{}
	}
	if e.Bookmarks == nil {
		e.Bookmarks = []string{}
	}
}

// IsFull reports whether the registered list is at capacity.
func (e *Event) IsFull() bool {
	return len(e.RegisteredUsers) >= e.MaxAttendees
}

// IsRegistered reports whether the user holds a confirmed spot.
func (e *Event) IsRegistered(userID string) bool {
	for _, a := range e.RegisteredUsers {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// IsWaitlisted reports whether the user is queued on the waitlist.
func (e *Event) IsWaitlisted(userID string) bool {
	for _, a := range e.Waitlist {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// RegisterResult describes the outcome of a Register call.
type RegisterResult struct {
	Outcome string
	// Position is the 1-based waitlist position when Outcome is waitlisted,
	// zero otherwise.
	Position int
	// Changed is false when the call was an idempotent repeat.
	Changed bool
}

// Register places the attendee in the registered list if there is capacity,
// otherwise appends them to the waitlist tail. Repeat calls for a user
// already in either list report their current placement without mutating.
func (e *Event) Register(att Attendee) RegisterResult {
	e.EnsureState()

	if e.IsRegistered(att.UserID) {
		return RegisterResult{Outcome: RegisterOutcomeRegistered}
	}
	if pos := e.WaitlistPosition(att.UserID); pos != WaitlistPositionNone {
		return RegisterResult{Outcome: RegisterOutcomeWaitlisted, Position: pos}
	}

	if !e.IsFull() {
		e.RegisteredUsers = append(e.RegisteredUsers, att)
		return RegisterResult{Outcome: RegisterOutcomeRegistered, Changed: true}
	}

	e.Waitlist = append(e.Waitlist, att)
	return RegisterResult{
		Outcome:  RegisterOutcomeWaitlisted,
		Position: len(e.Waitlist),
		Changed:  true,
	}
}

// UnregisterResult describes the outcome of an Unregister call.
type UnregisterResult struct {
	// Removed is false when the user was in neither list.
	Removed bool
	// Promoted is the waitlist head moved into the freed spot, if any.
	Promoted *Attendee
}

// Unregister removes the user from the event. A waitlisted user simply
// leaves the queue. A registered user frees a spot, which is immediately
// filled by the waitlist head; the removal and the promotion are a single
// transition. RSVP confirmation and check-in records for the departing
// user are pruned so the subset invariants hold.
func (e *Event) Unregister(userID string) UnregisterResult {
	e.EnsureState()

	for i, a := range e.Waitlist {
		if a.UserID == userID {
			e.Waitlist = append(e.Waitlist[:i], e.Waitlist[i+1:]...)
			return UnregisterResult{Removed: true}
		}
	}

	for i, a := range e.RegisteredUsers {
		if a.UserID != userID {
			continue
		}
		e.RegisteredUsers = append(e.RegisteredUsers[:i], e.RegisteredUsers[i+1:]...)
		e.RSVPConfirmed = removeString(e.RSVPConfirmed, userID)
		e.CheckedIn = removeString(e.CheckedIn, userID)

		result := UnregisterResult{Removed: true}
		if len(e.Waitlist) > 0 {
			head := e.Waitlist[0]
			e.Waitlist = e.Waitlist[1:]
			e.RegisteredUsers = append(e.RegisteredUsers, head)
			result.Promoted = &head
		}
		return result
	}

	return UnregisterResult{}
}

// WaitlistPosition returns the user's 1-based position in the waitlist,
// or WaitlistPositionNone when the user is not queued.
func (e *Event) WaitlistPosition(userID string) int {
	for i, a := range e.Waitlist {
		if a.UserID == userID {
			return i + 1
		}
	}
	return WaitlistPositionNone
}

// RegistrationStatus returns the user's status for this event. A full
// event reads as closed to outsiders even though register would still
// queue them on the waitlist.
func (e *Event) RegistrationStatus(userID string) string {
	if e.IsRegistered(userID) {
		return RegistrationStatusRegistered
	}
	if e.IsWaitlisted(userID) {
		return RegistrationStatusWaitlisted
	}
	if e.IsFull() {
		return RegistrationStatusClosed
	}
	return RegistrationStatusAvailable
}

// ConfirmRSVP records an RSVP confirmation for a registered user.
// It reports whether the state changed; confirming while waitlisted or
// unregistered is a no-op, as is a repeat confirmation.
func (e *Event) ConfirmRSVP(userID string) bool {
	e.EnsureState()
	if !e.IsRegistered(userID) {
		return false
	}
	if containsString(e.RSVPConfirmed, userID) {
		return false
	}
	e.RSVPConfirmed = append(e.RSVPConfirmed, userID)
	return true
}

// CancelRSVP withdraws an RSVP confirmation. Cancelling a confirmation
// that never existed changes nothing.
func (e *Event) CancelRSVP(userID string) bool {
	e.EnsureState()
	if !containsString(e.RSVPConfirmed, userID) {
		return false
	}
	e.RSVPConfirmed = removeString(e.RSVPConfirmed, userID)
	return true
}

// HasRSVP reports whether the user has confirmed their RSVP.
func (e *Event) HasRSVP(userID string) bool {
	return containsString(e.RSVPConfirmed, userID)
}

// CheckIn records attendance for a registered user. A waitlisted or
// unknown user is reported as not-registered before any already check,
// so they are never told they already checked in.
func (e *Event) CheckIn(userID string) string {
	e.EnsureState()
	if !e.IsRegistered(userID) {
		return CheckInOutcomeNotRegistered
	}
	if containsString(e.CheckedIn, userID) {
		return CheckInOutcomeAlready
	}
	e.CheckedIn = append(e.CheckedIn, userID)
	return CheckInOutcomeSuccess
}

// IsCheckedIn reports whether the user has checked in.
func (e *Event) IsCheckedIn(userID string) bool {
	return containsString(e.CheckedIn, userID)
}

// ToggleBookmark flips the user's bookmark and reports whether the event
// is bookmarked after the call.
func (e *Event) ToggleBookmark(userID string) bool {
	e.EnsureState()
	if containsString(e.Bookmarks, userID) {
		e.Bookmarks = removeString(e.Bookmarks, userID)
		return false
	}
	e.Bookmarks = append(e.Bookmarks, userID)
	return true
}

// IsBookmarked reports whether the user has bookmarked the event.
func (e *Event) IsBookmarked(userID string) bool {
	return containsString(e.Bookmarks, userID)
}

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartTime    time.Time `json:"start_time"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	Department   string    `json:"department"`
	Organizer    string    `json:"organizer"`
	MaxAttendees int       `json:"max_attendees"`
	Image        *string   `json:"image,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
}

// UpdateEventRequest represents a partial update to an event's
// organizer-editable fields. Registration state is never touched here.
type UpdateEventRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Department   *string    `json:"department,omitempty"`
	Organizer    *string    `json:"organizer,omitempty"`
	MaxAttendees *int       `json:"max_attendees,omitempty"`
	Image        *string    `json:"image,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// EventFilters narrows event listings.
type EventFilters struct {
	Category    *string    `json:"category,omitempty"`
	Department  *string    `json:"department,omitempty"`
	StartAfter  *time.Time `json:"start_after,omitempty"`
	StartBefore *time.Time `json:"start_before,omitempty"`
	CreatedBy   *string    `json:"created_by,omitempty"`
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
