// Package game drives a bot-vs-bot chess match. A Match is a small state
// machine advanced one step per Tick by a single goroutine (a GUI frame
// loop or Run); the bots answer on their own goroutines.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"chessbots/bots"
	"chessbots/rules"
)

// Player is one side's move source. bots.Worker is the real one.
type Player interface {
	Send(req bots.MoveRequest) error
	TryReceive() (*chess.Move, bool)
	Close()
}

type Phase int

const (
	ToMove Phase = iota
	Waiting
	Complete
)

func (p Phase) String() string {
	switch p {
	case ToMove:
		return "to move"
	case Waiting:
		return "waiting"
	default:
		return "complete"
	}
}

type Options struct {
	// TimeControl is each side's total budget.
	TimeControl time.Duration
	// StartFEN overrides the standard starting position.
	StartFEN string
	// MaxPlies ends the match as a draw after that many moves; 0 means no cap.
	MaxPlies int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Match owns the game and both clocks. Tick is the only mutator and must be
// called from one goroutine.
type Match struct {
	game     *chess.Game
	players  map[chess.Color]Player
	clock    Clock
	phase    Phase
	opts     Options
	maxPlies int
	plies    int
	now      func() time.Time

	sent       *chess.Position
	dispatched time.Time

	result    *Result
	observers []func(Result)
	done      chan struct{}
	logger    zerolog.Logger
}

func NewMatch(white, black Player, opts Options) (*Match, error) {
	if opts.TimeControl <= 0 {
		return nil, errors.New("time control must be positive")
	}
	g := chess.NewGame()
	if opts.StartFEN != "" {
		fen, err := chess.FEN(opts.StartFEN)
		if err != nil {
			return nil, err
		}
		g = chess.NewGame(fen)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Match{
		game:     g,
		players:  map[chess.Color]Player{chess.White: white, chess.Black: black},
		clock:    NewClock(opts.TimeControl),
		opts:     opts,
		maxPlies: opts.MaxPlies,
		now:      now,
		done:     make(chan struct{}),
		logger:   log.With().Str("component", "match").Logger(),
	}, nil
}

// Tick advances the match by at most one step. It is a no-op once the
// match is complete.
func (m *Match) Tick() {
	switch m.phase {
	case ToMove:
		m.dispatch()
	case Waiting:
		m.poll()
	}
}

func (m *Match) dispatch() {
	if res, over := m.engineResult(); over {
		m.finish(res)
		return
	}
	pos := m.game.Position()
	side := pos.Turn()
	req := bots.MoveRequest{
		MyTime:       m.clock.Remaining(side),
		OpponentTime: m.clock.Remaining(side.Other()),
		Position:     rules.Snapshot(pos),
	}
	if err := m.players[side].Send(req); err != nil {
		// The clock will run out for this side.
		m.logger.Error().Err(err).Str("side", side.Name()).Msg("request not delivered")
	}
	m.sent = pos
	m.dispatched = m.now()
	m.phase = Waiting
}

func (m *Match) poll() {
	side := m.sent.Turn()
	elapsed := m.now().Sub(m.dispatched)
	if m.clock.Running(side, elapsed) == 0 {
		m.clock.Charge(side, elapsed)
		m.logger.Info().Str("side", side.Name()).Msg("flag fell")
		m.forfeit(side, TimeForfeit)
		return
	}

	mv, ok := m.players[side].TryReceive()
	if !ok {
		return
	}
	left := m.clock.Charge(side, elapsed)

	if m.game.Position() != m.sent {
		m.logger.Error().Str("side", side.Name()).Msg("answer for a stale position")
		m.forfeit(side, Resignation)
		return
	}
	legal, ok := rules.FindLegal(m.sent, mv)
	if !ok {
		m.logger.Warn().Str("side", side.Name()).Str("move", fmt.Sprint(mv)).Msg("illegal move, resigning")
		m.forfeit(side, Resignation)
		return
	}
	if err := m.game.Move(legal); err != nil {
		m.logger.Warn().Err(err).Str("side", side.Name()).Msg("move rejected, resigning")
		m.forfeit(side, Resignation)
		return
	}
	m.plies++
	m.logger.Debug().
		Str("side", side.Name()).
		Str("move", legal.String()).
		Dur("elapsed", elapsed).
		Dur("left", left).
		Int("ply", m.plies).
		Msg("move played")
	m.afterMove()
}

func (m *Match) afterMove() {
	if res, over := m.engineResult(); over {
		m.finish(res)
		return
	}
	if method, ok := rules.CanClaimDraw(m.game); ok {
		if err := rules.ClaimDraw(m.game, method); err == nil {
			m.finish(Result{Outcome: chess.Draw, Reason: DrawClaim, Method: method})
			return
		}
	}
	if m.maxPlies > 0 && m.plies >= m.maxPlies {
		// Recorded in the game as an agreed draw.
		_ = m.game.Draw(chess.DrawOffer)
		m.finish(Result{Outcome: chess.Draw, Reason: MoveLimit, Method: chess.DrawOffer})
		return
	}
	m.phase = ToMove
}

// engineResult reports a result the rules already decide: whatever the
// engine recorded, or mate/stalemate when no legal move is left.
func (m *Match) engineResult() (Result, bool) {
	pos := m.game.Position()
	if outcome, method, over := rules.Outcome(m.game); over {
		return resultFromEngine(outcome, method, pos.Turn()), true
	}
	if len(rules.LegalMoves(pos)) > 0 {
		return Result{}, false
	}
	if pos.Status() == chess.Checkmate {
		return Result{Outcome: lossFor(pos.Turn()), Reason: Checkmate, Method: chess.Checkmate, Side: pos.Turn()}, true
	}
	return Result{Outcome: chess.Draw, Reason: Stalemate, Method: chess.Stalemate}, true
}

func (m *Match) forfeit(side chess.Color, reason Reason) {
	m.game.Resign(side)
	m.finish(Result{Outcome: lossFor(side), Reason: reason, Method: chess.Resignation, Side: side})
}

func (m *Match) finish(res Result) {
	res.Plies = m.plies
	m.result = &res
	m.phase = Complete
	close(m.done)
	m.logger.Info().
		Str("outcome", string(res.Outcome)).
		Stringer("reason", res.Reason).
		Str("method", rules.MethodName(res.Method)).
		Int("plies", res.Plies).
		Dur("white_left", m.clock.White).
		Dur("black_left", m.clock.Black).
		Msg("match complete")
	for _, fn := range m.observers {
		fn(res)
	}
}

// OnResult registers fn to be called once with the final result. If the
// match is already over fn is called immediately.
func (m *Match) OnResult(fn func(Result)) {
	if m.result != nil {
		fn(*m.result)
		return
	}
	m.observers = append(m.observers, fn)
}

// Done is closed when the match completes.
func (m *Match) Done() <-chan struct{} {
	return m.done
}

func (m *Match) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// Snapshot is a read-only view of a match for display.
type Snapshot struct {
	FEN   string
	Board *chess.Board
	Turn  chess.Color
	White time.Duration
	Black time.Duration
	Phase Phase
	Plies int
	Moves []string
	// Result is nil while the match is running.
	Result *Result
}

// State returns the current match state. The clock of a side that is
// thinking is shown as it runs.
func (m *Match) State() Snapshot {
	pos := m.game.Position()
	clock := m.clock
	if m.phase == Waiting {
		side := m.sent.Turn()
		left := clock.Running(side, m.now().Sub(m.dispatched))
		if side == chess.White {
			clock.White = left
		} else {
			clock.Black = left
		}
	}
	s := Snapshot{
		FEN:   pos.String(),
		Board: pos.Board(),
		Turn:  pos.Turn(),
		White: clock.White,
		Black: clock.Black,
		Phase: m.phase,
		Plies: m.plies,
		Moves: lo.Map(m.game.Moves(), func(mv *chess.Move, _ int) string { return mv.String() }),
	}
	if m.result != nil {
		res := *m.result
		s.Result = &res
	}
	return s
}

// Options returns the options the match was created with.
func (m *Match) Options() Options {
	return m.opts
}

// PGN renders the game so far.
func (m *Match) PGN() string {
	return m.game.String()
}

// Run ticks the match every interval until it completes or ctx ends.
func (m *Match) Run(ctx context.Context, interval time.Duration) (Result, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		m.Tick()
		if res, ok := m.Result(); ok {
			return res, nil
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close shuts down both players. A bot still thinking finishes in the
// background and its answer is dropped.
func (m *Match) Close() {
	for _, p := range m.players {
		p.Close()
	}
}
