package navigator

import "time"

// Direction names used by navigation listeners.
const (
	DirectionNext     = "next"
	DirectionPrevious = "previous"
)

// Navigation is an immutable record of one slide change, handed to observers
// outside the frame loop.
type Navigation struct {
	Deck  string    `json:"deck,omitempty"`
	From  int       `json:"from"`
	To    int       `json:"to"`
	Total int       `json:"total"`
	At    time.Time `json:"at"`
}

// NewNavigation builds the record of a navigated outcome.
func NewNavigation(deck string, out Outcome, total int) Navigation {
	return Navigation{
		Deck:  deck,
		From:  out.From,
		To:    out.To,
		Total: total,
		At:    time.Now(),
	}
}

// Direction returns DirectionNext or DirectionPrevious.
func (n Navigation) Direction() string {
	if n.To < n.From {
		return DirectionPrevious
	}
	return DirectionNext
}

// Observer is notified after each slide change. Navigated runs on the frame
// loop goroutine and must not block.
type Observer interface {
	Navigated(n Navigation)
}
