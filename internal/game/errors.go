package game

import (
	"errors"
	"fmt"
)

// Setup and seating errors.
var (
	ErrNotEnoughPlayers = errors.New("not enough players to start a hand")
	ErrHandInProgress   = errors.New("hand in progress")
	ErrTableFull        = errors.New("table is full")
	ErrPlayerExists     = errors.New("player already seated")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrInvalidChips     = errors.New("chip count must not be negative")
)

// Reason is the machine-readable cause of a rejected action.
type Reason string

const (
	ReasonNotYourTurn       Reason = "not_your_turn"
	ReasonCannotAct         Reason = "cannot_act"
	ReasonCannotCheck       Reason = "cannot_check"
	ReasonNothingToCall     Reason = "nothing_to_call"
	ReasonRaiseBelowMinimum Reason = "raise_below_minimum"
	ReasonInsufficientChips Reason = "insufficient_chips"
	ReasonRaiseNotReopened  Reason = "raise_not_reopened"
	ReasonNoChips           Reason = "no_chips"
	ReasonUnknownAction     Reason = "unknown_action"
	ReasonUnknownPlayer     Reason = "unknown_player"
	ReasonHandNotInProgress Reason = "hand_not_in_progress"
)

// Sentinels for errors.Is. They match any ActionError with the same reason.
var (
	ErrNotYourTurn       = &ActionError{Reason: ReasonNotYourTurn}
	ErrCannotAct         = &ActionError{Reason: ReasonCannotAct}
	ErrCannotCheck       = &ActionError{Reason: ReasonCannotCheck}
	ErrNothingToCall     = &ActionError{Reason: ReasonNothingToCall}
	ErrRaiseBelowMinimum = &ActionError{Reason: ReasonRaiseBelowMinimum}
	ErrInsufficientChips = &ActionError{Reason: ReasonInsufficientChips}
	ErrRaiseNotReopened  = &ActionError{Reason: ReasonRaiseNotReopened}
	ErrNoChips           = &ActionError{Reason: ReasonNoChips}
	ErrUnknownAction     = &ActionError{Reason: ReasonUnknownAction}
	ErrUnknownPlayer     = &ActionError{Reason: ReasonUnknownPlayer}
	ErrHandNotInProgress = &ActionError{Reason: ReasonHandNotInProgress}
)

// ActionContext is the betting state a rejected player needs to self-correct.
type ActionContext struct {
	Stage      Stage `json:"stage"`
	CurrentBet int   `json:"current_bet"`
	PlayerBet  int   `json:"player_bet"`
	Chips      int   `json:"chips"`
	ToCall     int   `json:"to_call"`
	MinRaise   int   `json:"min_raise"`
	MaxRaise   int   `json:"max_raise"`
}

// ActionError is a recoverable rejection of an action. The table is left
// exactly as it was before the call.
type ActionError struct {
	Reason   Reason        `json:"reason"`
	PlayerID string        `json:"player_id,omitempty"`
	Action   Action        `json:"action"`
	Amount   int           `json:"amount,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Context  ActionContext `json:"context"`
}

func (e *ActionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
	}
	return string(e.Reason)
}

// Is matches on reason so callers can write errors.Is(err, game.ErrNotYourTurn).
func (e *ActionError) Is(target error) bool {
	t, ok := target.(*ActionError)
	return ok && t.Reason == e.Reason
}

// InvariantError reports internal state that can only arise from a bug. It is
// never retryable.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Detail)
}

func invariant(op, format string, args ...any) error {
	return &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
