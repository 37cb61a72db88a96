// Package policy provides decision policies for seats and a Guard that keeps
// any policy within a time limit and the table's legal actions.
package policy

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokerengine/internal/game"
)

// Guard wraps a policy so that every call yields a legal decision. Errors,
// panics, illegal choices and slow answers are replaced by
// game.FallbackDecision.
type Guard struct {
	inner   game.Policy
	name    string
	timeout time.Duration
	clock   quartz.Clock
	logger  *log.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithTimeout bounds how long the wrapped policy may think. Zero disables the limit.
func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) { g.timeout = d }
}

// WithClock sets the clock the timeout is measured on.
func WithClock(c quartz.Clock) GuardOption {
	return func(g *Guard) { g.clock = c }
}

// WithGuardLogger sets the logger for substitutions.
func WithGuardLogger(l *log.Logger) GuardOption {
	return func(g *Guard) { g.logger = l }
}

// NewGuard wraps inner. name identifies the policy in log output.
func NewGuard(name string, inner game.Policy, opts ...GuardOption) *Guard {
	if inner == nil {
		panic("policy is required")
	}
	g := &Guard{
		inner:  inner,
		name:   name,
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type outcome struct {
	decision game.Decision
	err      error
}

// Decide asks the wrapped policy and substitutes the fallback decision when
// it fails. The only error returned is the caller's context error.
func (g *Guard) Decide(ctx context.Context, view game.View) (game.Decision, error) {
	fallback := game.FallbackDecision(view.Legal)
	if err := ctx.Err(); err != nil {
		return fallback, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Arm the timer before the policy runs so a mock clock sees it.
	var timeoutFired chan struct{}
	if g.timeout > 0 {
		timeoutFired = make(chan struct{})
		timer := g.clock.AfterFunc(g.timeout, func() {
			close(timeoutFired)
		}, "policy", "guard")
		defer timer.Stop()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("policy panicked: %v", r)}
			}
		}()
		d, err := g.inner.Decide(ctx, view)
		done <- outcome{decision: d, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if err := ctx.Err(); err != nil {
				return fallback, err
			}
			g.logger.Warn("Policy failed, using fallback",
				"policy", g.name, "player", view.ViewerID, "error", out.err, "fallback", fallback.Action)
			return fallback, nil
		}
		if !view.Legal.Allows(out.decision.Action, out.decision.Amount) {
			g.logger.Warn("Policy chose an illegal action, using fallback",
				"policy", g.name, "player", view.ViewerID,
				"action", out.decision.Action, "amount", out.decision.Amount, "fallback", fallback.Action)
			return fallback, nil
		}
		return out.decision, nil
	case <-timeoutFired:
		g.logger.Warn("Policy timed out, using fallback",
			"policy", g.name, "player", view.ViewerID, "timeout", g.timeout, "fallback", fallback.Action)
		fallback.Reason = "timeout"
		return fallback, nil
	case <-ctx.Done():
		return fallback, ctx.Err()
	}
}

var _ game.Policy = (*Guard)(nil)
