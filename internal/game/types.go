package game

import (
	"fmt"
	"strings"
)

// Stage is the phase of a hand
type Stage int

const (
	Preflop Stage = iota
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes an action name.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction converts an action name from the outside world. Aliases used by
// common clients ("bet", "all-in", "all_in") are accepted; anything else is an
// ActionError with ReasonUnknownAction.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "allin", "all-in", "all_in", "shove":
		return AllIn, nil
	default:
		return 0, &ActionError{Reason: ReasonUnknownAction, Detail: fmt.Sprintf("unknown action %q", s)}
	}
}

// Status is where a player stands in the current hand
type Status int

const (
	// StatusWaiting players are seated but not dealt into the hand.
	StatusWaiting Status = iota
	StatusPlaying
	StatusFolded
	StatusAllIn
	// StatusOut players have no chips and never receive cards.
	StatusOut
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusPlaying:
		return "playing"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "allin"
	case StatusOut:
		return "out"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
