package arena

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat/distuv"

	"chessbots/game"
)

type Side struct {
	Wins      int
	WhiteWins int
	BlackWins int
}

type Tally struct {
	// Players[0] is bot A, Players[1] bot B.
	Players [2]Side
	Draws   int
	Reasons map[game.Reason]int
}

func (t *Tally) Add(g Game) {
	if t.Reasons == nil {
		t.Reasons = make(map[game.Reason]int)
	}
	t.Reasons[g.Result.Reason]++
	a, ok := g.winnerIsA()
	if !ok {
		t.Draws++
		return
	}
	p := &t.Players[1]
	wonAsWhite := !g.AWhite
	if a {
		p = &t.Players[0]
		wonAsWhite = g.AWhite
	}
	p.Wins++
	if wonAsWhite {
		p.WhiteWins++
	} else {
		p.BlackWins++
	}
}

func (t *Tally) Count() int {
	return t.Players[0].Wins + t.Players[1].Wins + t.Draws
}

// PValue is the one-sided binomial test of the decisive games: the chance
// that two equal bots split them at least this unevenly in the leader's
// favour. Draws are ignored.
func (t *Tally) PValue() float64 {
	a, b := t.Players[0].Wins, t.Players[1].Wins
	if a < b {
		a, b = b, a
	}
	n := a + b
	if n == 0 {
		return 1
	}
	dist := distuv.Binomial{N: float64(n), P: 0.5}
	return 1 - dist.CDF(float64(a-1))
}

// Print writes a win table in the style of a cross table.
func (t *Tally) Print(w io.Writer, botA, botB string) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\twhite\tblack\tsum\n")
	fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", botA, t.Players[0].WhiteWins, t.Players[0].BlackWins, t.Players[0].Wins)
	fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", botB, t.Players[1].WhiteWins, t.Players[1].BlackWins, t.Players[1].Wins)
	fmt.Fprintf(tw, "draws\t\t\t%d\n", t.Draws)
	fmt.Fprintf(tw, "p[one-sided]\t\t\t%.4f\n", t.PValue())
	return tw.Flush()
}
