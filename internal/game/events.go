package game

import "fmt"

// Event names the kind of user-visible action for sound and haptic feedback.
type Event uint8

const (
	EventNone Event = iota
	EventSelect
	EventPlace
	EventMove
	EventCapture
	EventWin
	EventLose
	EventInvalid
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventSelect:
		return "select"
	case EventPlace:
		return "place"
	case EventMove:
		return "move"
	case EventCapture:
		return "capture"
	case EventWin:
		return "win"
	case EventLose:
		return "lose"
	case EventInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("event(%d)", e)
	}
}

func (e Event) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// EventSink receives one notification per user-visible action.
type EventSink interface {
	Notify(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Notify(e Event) { f(e) }

type discardSink struct{}

func (discardSink) Notify(Event) {}

// ActionEvent classifies an accepted move.
func ActionEvent(m Move) Event {
	switch {
	case m.Captured != nil:
		return EventCapture
	case m.IsPlacement():
		return EventPlace
	default:
		return EventMove
	}
}

// OutcomeEvent is win when perspective won the game and lose otherwise.
func OutcomeEvent(winner, perspective Color) Event {
	if winner == perspective {
		return EventWin
	}
	return EventLose
}
