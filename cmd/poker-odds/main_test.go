package main

import (
	"bytes"
	"context"
	"testing"
)

func TestParseHands(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected int
		hasError bool
	}{
		{name: "Single hand", input: []string{"AcKh"}, expected: 1},
		{name: "Multiple hands", input: []string{"AcKh", "KdQs"}, expected: 2},
		{name: "Hands in one quoted argument", input: []string{"AcKh KdQs"}, expected: 2},
		{name: "Hand with spaces", input: []string{"Ac Kh"}, expected: 1},
		{name: "Invalid hand - too many cards", input: []string{"AcKhQd"}, hasError: true},
		{name: "Invalid hand - too few cards", input: []string{"Ac"}, hasError: true},
		{name: "Invalid card format", input: []string{"AcXy"}, hasError: true},
		{name: "No hands", input: []string{""}, hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := parseHands(tt.input)

			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(hands) != tt.expected {
				t.Errorf("Expected %d hands, got %d", tt.expected, len(hands))
			}
			for _, hand := range hands {
				if len(hand) != 2 {
					t.Errorf("Each hand should have exactly 2 cards, got %d", len(hand))
				}
			}
		})
	}
}

func TestRunSingleHandAgainstField(t *testing.T) {
	var out bytes.Buffer
	cli := CLI{Hands: []string{"AsKs"}, Board: "Td7s8h", Players: 3, Iterations: 500, Seed: 1}
	if err := run(context.Background(), cli, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"board", "Td 7s 8h", "As Ks", "equity", "500 iterations"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunMatchupWithPossibilities(t *testing.T) {
	var out bytes.Buffer
	cli := CLI{Hands: []string{"AsAd", "KcKd"}, Board: "2h7c9sJd3h", Iterations: 20, Seed: 1, Possibilities: true}
	if err := run(context.Background(), cli, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"As Ad", "Kc Kd", "100.0%", "Pair"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		cli  CLI
	}{
		{"duplicate card", CLI{Hands: []string{"AsKs", "AsQd"}, Iterations: 10}},
		{"board too long", CLI{Hands: []string{"AsKs"}, Board: "2c3c4c5c6c7c", Iterations: 10}},
		{"bad board", CLI{Hands: []string{"AsKs"}, Board: "Zz", Iterations: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(context.Background(), tt.cli, &out); err == nil {
				t.Errorf("Expected error but got none")
			}
		})
	}
}
