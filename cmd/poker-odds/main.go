package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/pokerengine/internal/equity"
	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/poker"
)

type CLI struct {
	Hands         []string `arg:"" help:"Hole cards, e.g. 'AsKs' or 'AcKd QhJs'. One hand plays against random opponents."`
	Board         string   `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Players       int      `short:"n" default:"2" help:"Players in the hand, including you, when a single hand is given"`
	Possibilities bool     `short:"p" help:"Show hand class probabilities (known hands only)"`
	Iterations    int      `short:"i" default:"10000" help:"Number of Monte Carlo iterations"`
	Seed          int64    `help:"Random seed for reproducible results (0 for random)"`
	NoColor       bool     `help:"Disable colored output"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tieStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	percentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Estimate hold'em equity with Monte Carlo runouts."))

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if err := run(context.Background(), cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		kctx.Exit(1)
	}
}

func run(ctx context.Context, cli CLI, w io.Writer) error {
	hands, err := parseHands(cli.Hands)
	if err != nil {
		return fmt.Errorf("parsing hands: %w", err)
	}
	board, err := poker.ParseCards(cli.Board)
	if err != nil {
		return fmt.Errorf("parsing board: %w", err)
	}
	if len(board) > 5 {
		return fmt.Errorf("board cannot have more than 5 cards")
	}

	seed := cli.Seed
	if seed == 0 {
		_, seed = randutil.NewTimeSeeded()
	}
	opts := equity.Options{Iterations: cli.Iterations, RNG: randutil.New(seed)}

	if len(board) > 0 {
		fmt.Fprintf(w, "%s\n%s\n\n", headerStyle.Render("board"), poker.FormatCards(board))
	}

	start := time.Now()
	if len(hands) == 1 {
		res, err := equity.Estimate(ctx, hands[0], board, cli.Players, opts)
		if err != nil {
			return err
		}
		displayEstimate(w, hands[0], cli.Players, res)
	} else {
		odds, err := equity.Matchup(ctx, hands, board, opts)
		if err != nil {
			return err
		}
		displayMatchup(w, odds)
		if cli.Possibilities {
			fmt.Fprintln(w)
			displayPossibilities(w, odds)
		}
	}

	fmt.Fprintf(w, "\n%d iterations in %v (seed %d)\n", cli.Iterations, time.Since(start).Truncate(time.Millisecond), seed)
	return nil
}

func parseHands(handStrings []string) ([][]poker.Card, error) {
	var hands [][]poker.Card
	for i, handStr := range handStrings {
		for _, part := range strings.Fields(handStr) {
			hand, err := poker.ParseCards(part)
			if err != nil {
				return nil, fmt.Errorf("hand %d: %w", i+1, err)
			}
			// Tolerate "Ac Kh" as a single hand.
			if len(hand) == 1 && len(hands) > 0 && len(hands[len(hands)-1]) == 1 {
				hands[len(hands)-1] = append(hands[len(hands)-1], hand[0])
				continue
			}
			hands = append(hands, hand)
		}
	}
	for i, hand := range hands {
		if len(hand) != 2 {
			return nil, fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(hand))
		}
	}
	if len(hands) == 0 {
		return nil, fmt.Errorf("at least one hand is required")
	}
	return hands, nil
}

func displayEstimate(w io.Writer, hand []poker.Card, players int, res equity.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("players"),
		headerStyle.Render("equity"),
		headerStyle.Render("tie"))
	fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
		handStyle.Render(poker.FormatCards(hand)),
		players,
		winStyle.Render(percent(res.Equity)),
		tieStyle.Render(percent(ratio(res.Ties, res.Samples))))
	_ = tw.Flush()
}

func displayMatchup(w io.Writer, odds []equity.HandOdds) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"),
		headerStyle.Render("equity"))
	for _, o := range odds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			handStyle.Render(poker.FormatCards(o.Hand)),
			winStyle.Render(percent(ratio(o.Wins, o.Samples))),
			tieStyle.Render(percent(ratio(o.Ties, o.Samples))),
			percent(o.Equity))
	}
	_ = tw.Flush()
}

func displayPossibilities(w io.Writer, odds []equity.HandOdds) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, categoryStyle.Render("hand"))
	for _, o := range odds {
		fmt.Fprintf(tw, "\t%s", handStyle.Render(poker.FormatCards(o.Hand)))
	}
	fmt.Fprintln(tw)

	for cat := poker.StraightFlush; ; cat-- {
		seen := false
		for _, o := range odds {
			if o.Categories[cat] > 0 {
				seen = true
			}
		}
		if seen {
			fmt.Fprint(tw, categoryStyle.Render(cat.String()))
			for _, o := range odds {
				cell := "."
				if n := o.Categories[cat]; n > 0 {
					cell = percent(ratio(n, o.Samples))
				}
				fmt.Fprintf(tw, "\t%s", percentStyle.Render(cell))
			}
			fmt.Fprintln(tw)
		}
		if cat == poker.HighCard {
			break
		}
	}
	_ = tw.Flush()
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
