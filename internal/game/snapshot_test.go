package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHidesOpponentCards(t *testing.T) {
	t.Parallel()

	deck := stackedDeck(t, 0, []string{"AsAh", "KsKh", "QsQh"}, "2c7d9hJs3s")
	e := newTestEngine(t, []int{1000, 1000, 1000}, WithDeck(deck))
	require.NoError(t, e.StartHand())

	v := e.Snapshot("p1")
	me, ok := v.Viewer()
	require.True(t, ok)
	assert.Len(t, me.Hand, 2)
	for _, p := range v.Players {
		assert.Equal(t, 2, p.Cards)
		if p.ID != "p1" {
			assert.Nil(t, p.Hand, "%s's cards leaked to p1", p.ID)
		}
	}
	assert.Equal(t, LegalActions{}, v.Legal, "p1 is not the actor")

	anon := e.Snapshot("")
	for _, p := range anon.Players {
		assert.Nil(t, p.Hand)
	}

	actor := e.Snapshot("p0")
	assert.True(t, actor.Legal.Fold)
	assert.Equal(t, 10, actor.Legal.CallAmount)
	assert.Equal(t, 10, actor.ToCall())
	assert.Equal(t, 3, actor.ActivePlayers())
}

func TestSnapshotRevealsShowdownHands(t *testing.T) {
	t.Parallel()

	deck := stackedDeck(t, 0, []string{"AsAh", "KsKh", "QsQh"}, "2c7d9hJs3s")
	e := newTestEngine(t, []int{1000, 1000, 1000}, WithDeck(deck))
	require.NoError(t, e.StartHand())
	mustAct(t, e, "p0", Call, 0)
	mustAct(t, e, "p1", Fold, 0)
	mustAct(t, e, "p2", Check, 0)
	for e.HandInProgress() {
		actor, _ := e.Actor()
		mustAct(t, e, actor, Check, 0)
	}

	v := e.Snapshot("p1")
	assert.Equal(t, Showdown, v.Stage)
	for _, p := range v.Players {
		switch p.ID {
		case "p0", "p2":
			assert.Len(t, p.Hand, 2, "%s showed down", p.ID)
		case "p1":
			assert.Len(t, p.Hand, 2, "viewer always sees their own cards")
		}
	}

	other := e.Snapshot("p2")
	for _, p := range other.Players {
		if p.ID == "p1" {
			assert.Nil(t, p.Hand, "folded hands stay hidden")
		}
	}
}

func TestSnapshotJSON(t *testing.T) {
	t.Parallel()

	deck := stackedDeck(t, 0, []string{"AsAh", "KsKh"}, "2c7d9hJs3s")
	e := newTestEngine(t, []int{1000, 1000}, WithDeck(deck))
	require.NoError(t, e.StartHand())

	data, err := json.Marshal(e.Snapshot("p0"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "preflop", decoded["stage"])
	assert.EqualValues(t, 15, decoded["pot"])

	players := decoded["players"].([]any)
	first := players[0].(map[string]any)
	assert.Equal(t, []any{"As", "Ah"}, first["hand"])
	assert.Equal(t, "playing", first["status"])
	second := players[1].(map[string]any)
	assert.NotContains(t, second, "hand")
}
