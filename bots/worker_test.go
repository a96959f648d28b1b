package bots

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/notnil/chess"

	"chessbots/rules"
)

// gatedBot blocks in BestMove until release is signalled.
type gatedBot struct {
	started chan struct{}
	release chan struct{}
}

func (b *gatedBot) BestMove(req MoveRequest) *chess.Move {
	b.started <- struct{}{}
	<-b.release
	return rules.LegalMoves(req.Position)[0]
}

func (b *gatedBot) Name() string { return "gated" }

type panicBot struct{}

func (panicBot) BestMove(MoveRequest) *chess.Move { panic("boom") }
func (panicBot) Name() string                     { return "panic" }

type nilBot struct{}

func (nilBot) BestMove(MoveRequest) *chess.Move { return nil }
func (nilBot) Name() string                     { return "nil" }

func receiveWithin(w *Worker, d time.Duration) (*chess.Move, bool) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if mv, ok := w.TryReceive(); ok {
			return mv, true
		}
		time.Sleep(time.Millisecond)
	}
	return nil, false
}

func TestWorkerAnswersInOrder(t *testing.T) {
	is := is.New(t)
	w := NewWorker(NewNewbornBot())
	defer w.Close()

	start := chess.NewGame().Position()
	is.NoErr(w.Send(request(rules.Snapshot(start))))
	first, ok := receiveWithin(w, time.Second)
	is.True(ok)
	is.True(isLegal(start, first))

	next := rules.Apply(start, first)
	is.NoErr(w.Send(request(rules.Snapshot(next))))
	second, ok := receiveWithin(w, time.Second)
	is.True(ok)
	is.True(isLegal(next, second))

	_, ok = w.TryReceive()
	is.True(!ok)
}

func TestWorkerTryReceiveDoesNotBlock(t *testing.T) {
	is := is.New(t)
	bot := &gatedBot{started: make(chan struct{}, 1), release: make(chan struct{})}
	w := NewWorker(bot)
	defer w.Close()

	_, ok := w.TryReceive()
	is.True(!ok)

	is.NoErr(w.Send(request(chess.NewGame().Position())))
	<-bot.started

	begin := time.Now()
	_, ok = w.TryReceive()
	is.True(!ok)
	is.True(time.Since(begin) < 50*time.Millisecond)

	// The single slot is taken until the answer is consumed.
	is.NoErr(w.Send(request(chess.NewGame().Position())))
	is.True(errors.Is(w.Send(request(chess.NewGame().Position())), ErrBusy))

	close(bot.release)
	_, ok = receiveWithin(w, time.Second)
	is.True(ok)
	<-bot.started
	_, ok = receiveWithin(w, time.Second)
	is.True(ok)
}

func TestWorkerStopsAnsweringAfterBotFailure(t *testing.T) {
	for _, bot := range []ChessBot{panicBot{}, nilBot{}} {
		t.Run(bot.Name(), func(t *testing.T) {
			is := is.New(t)
			w := NewWorker(bot)
			defer w.Close()

			is.NoErr(w.Send(request(chess.NewGame().Position())))
			select {
			case <-w.Done():
			case <-time.After(time.Second):
				t.Fatal("worker did not stop")
			}
			_, ok := w.TryReceive()
			is.True(!ok)
		})
	}
}

func TestWorkerClose(t *testing.T) {
	is := is.New(t)
	w := NewWorker(NewNewbornBot())
	w.Close()
	w.Close()

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	is.True(errors.Is(w.Send(request(chess.NewGame().Position())), ErrClosed))
}
