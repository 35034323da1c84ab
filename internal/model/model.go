// Package model defines the core domain types for the activity board.
package model

// Activity is a named, capacity-bounded event with a participant roster.
// The name is the catalog key and is not part of the JSON body.
type Activity struct {
	Name            string   `json:"-" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// SpotsLeft returns the remaining capacity. It is negative when the server
// has over-allocated the activity.
func (a *Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// IsFull returns true when no spots remain.
func (a *Activity) IsFull() bool {
	return a.SpotsLeft() <= 0
}

// HasParticipant reports whether email is on the roster.
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can't mutate a stored roster.
func (a Activity) Clone() Activity {
	a.Participants = append([]string(nil), a.Participants...)
	return a
}

// MessageResponse is the success body of signup and unregister.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON error envelope returned by the activities API.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageKind styles a status message.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)
