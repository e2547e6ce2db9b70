package conversation

import "time"

// Turn records one completed user/tutor exchange. Turns are immutable once
// appended to a session.
type Turn struct {
	ID        string    `json:"id"`
	UserText  string    `json:"user"`
	BotText   string    `json:"bot"`
	CreatedAt time.Time `json:"timestamp"`
	Points    int       `json:"points"`
}

// Session accumulates the turns and reward points of one client session.
// Sessions live only in memory and are dropped on expiry or restart.
//
// Invariant: TotalPoints equals the sum of Points over Turns, and Turns is
// append-only in arrival order.
type Session struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"professor"`
	Turns       []Turn    `json:"messages"`
	TotalPoints int       `json:"totalPoints"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LastActivity reports the timestamp of the most recent turn. Sessions are
// only created together with their first turn, so an empty Turns slice falls
// back to the session creation time.
func (s Session) LastActivity() time.Time {
	if len(s.Turns) == 0 {
		return s.CreatedAt
	}
	return s.Turns[len(s.Turns)-1].CreatedAt
}
