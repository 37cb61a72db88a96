package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Action
	}{
		{"fold", Fold},
		{"CHECK", Check},
		{" call ", Call},
		{"raise", Raise},
		{"bet", Raise},
		{"allin", AllIn},
		{"all-in", AllIn},
		{"all_in", AllIn},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAction("dance")
	requireReason(t, err, ReasonUnknownAction)
}

func TestActionTextRoundTrip(t *testing.T) {
	t.Parallel()

	for _, a := range []Action{Fold, Check, Call, Raise, AllIn} {
		text, err := a.MarshalText()
		require.NoError(t, err)
		var back Action
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, a, back)
	}
}

func TestFallbackDecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		legal LegalActions
		want  Action
	}{
		{"check when free", LegalActions{Fold: true, Check: true, Raise: &RaiseRange{Min: 10, Max: 100}}, Check},
		{"call when facing a bet", LegalActions{Fold: true, CallAmount: 20}, Call},
		{"fold otherwise", LegalActions{Fold: true}, Fold},
		{"fold when nothing is legal", LegalActions{}, Fold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FallbackDecision(tt.legal).Action)
		})
	}
}

func TestLegalActionsAllows(t *testing.T) {
	t.Parallel()

	l := LegalActions{Fold: true, CallAmount: 10, Raise: &RaiseRange{Min: 10, Max: 50}, AllIn: true}
	assert.True(t, l.Any())
	assert.True(t, l.Allows(Fold, 0))
	assert.False(t, l.Allows(Check, 0))
	assert.True(t, l.Allows(Call, 0))
	assert.True(t, l.Allows(Raise, 10))
	assert.True(t, l.Allows(Raise, 50))
	assert.False(t, l.Allows(Raise, 9))
	assert.False(t, l.Allows(Raise, 51))
	assert.True(t, l.Allows(AllIn, 0))
	assert.False(t, l.Allows(Action(9), 0))
	assert.False(t, LegalActions{}.Any())
}

func TestLegalActionsShortStack(t *testing.T) {
	t.Parallel()

	// p0 has 7 behind after posting and faces 5 more: a min raise needs 15.
	e := newTestEngine(t, []int{12, 1000})
	require.NoError(t, e.StartHand())

	legal := e.LegalActions("p0")
	assert.True(t, legal.Fold)
	assert.False(t, legal.Check)
	assert.Equal(t, 5, legal.CallAmount)
	assert.Nil(t, legal.Raise)
	assert.True(t, legal.AllIn)

	assert.Equal(t, LegalActions{}, e.LegalActions("p1"), "not p1's turn")
}

func TestApplyDecisionFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		decision Decision
		setup    func(t *testing.T, e *Engine)
		actor    string
		want     Action
	}{
		{
			name:     "raise below minimum facing a bet calls",
			decision: Decision{Action: Raise, Amount: 1},
			actor:    "p0",
			want:     Call,
		},
		{
			name:     "malformed action facing a bet calls",
			decision: Decision{Action: Action(-1)},
			actor:    "p0",
			want:     Call,
		},
		{
			name:     "illegal call when free checks",
			decision: Decision{Action: Call},
			setup:    func(t *testing.T, e *Engine) { mustAct(t, e, "p0", Call, 0) },
			actor:    "p1",
			want:     Check,
		},
		{
			name:     "oversized raise when free checks",
			decision: Decision{Action: Raise, Amount: 1 << 20},
			setup:    func(t *testing.T, e *Engine) { mustAct(t, e, "p0", Call, 0) },
			actor:    "p1",
			want:     Check,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			log := &EventLog{}
			bus := NewEventBus()
			bus.Subscribe(log)
			e := newTestEngine(t, []int{1000, 1000}, WithEventBus(bus))
			require.NoError(t, e.StartHand())
			if tt.setup != nil {
				tt.setup(t, e)
			}

			applied, err := e.ApplyDecision(tt.actor, tt.decision)
			require.NoError(t, err)
			assert.Equal(t, tt.want, applied.Action)

			actions := log.Actions()
			require.NotEmpty(t, actions)
			last := actions[len(actions)-1]
			assert.Equal(t, tt.actor, last.PlayerID)
			assert.Equal(t, tt.want, last.Action)
			assert.True(t, last.Fallback)
			requireConsistent(t, e, 2000)
		})
	}
}

func TestApplyDecisionLegalPassesThrough(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, []int{1000, 1000})
	require.NoError(t, e.StartHand())
	d := Decision{Action: Raise, Amount: 20, Reason: "value"}
	applied, err := e.ApplyDecision("p0", d)
	require.NoError(t, err)
	assert.Equal(t, d, applied)
	assert.Equal(t, 30, e.Snapshot("").CurrentBet)
}

func TestApplyDecisionWrongPlayerIsAnError(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, []int{1000, 1000})
	require.NoError(t, e.StartHand())
	before := e.Snapshot("")

	_, err := e.ApplyDecision("p1", Decision{Action: Check})
	requireReason(t, err, ReasonNotYourTurn)
	assert.Equal(t, before, e.Snapshot(""))
}
