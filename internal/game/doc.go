// Package game implements the no-limit Texas Hold'em betting engine.
//
// The main type is Engine, which owns a Table and drives one hand at a time
// from blind posting through showdown. Every call that mutates state takes a
// single lock for its whole duration, including any stage advance or
// settlement it cascades into, so an Engine is safe for concurrent callers.
//
// # Basic Usage
//
//	e := game.NewEngine(game.NewTable(game.TableConfig{SmallBlind: 5, BigBlind: 10, MaxSeats: 6}),
//	    game.WithRNG(randutil.New(42)))
//	alice, _ := e.Seat("Alice", 1000)
//	bob, _ := e.Seat("Bob", 1000)
//	if err := e.StartHand(); err != nil {
//	    // game.ErrNotEnoughPlayers
//	}
//	err := e.ProcessAction(alice, game.Call, 0)
//	var ae *game.ActionError
//	if errors.As(err, &ae) {
//	    // ae.Reason and ae.Context explain the rejection; state is unchanged
//	}
//
// # Raise Amounts
//
// The amount passed with Raise is always the size of the raise above the call,
// never the new total. Callers that collect a "raise to" figure translate it
// at their boundary.
//
// # Policies
//
// Non-human seats are driven through the Policy contract. A policy sees a View
// (the same redacted snapshot a player would) and returns a Decision; the
// engine applies it with ApplyDecision, which substitutes FallbackDecision
// for anything illegal instead of failing the hand.
//
// # Deterministic Testing
//
// WithRNG fixes the shuffle and WithDeck stacks the next hand's deck:
//
//	deck, _ := poker.NewStackedDeck(poker.MustParseCards("AsAhKsKh..."))
//	e := game.NewEngine(table, game.WithDeck(deck))
package game
