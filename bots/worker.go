package bots

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrBusy means a request was sent while the previous one is unanswered.
	ErrBusy = errors.New("bots: worker already has a pending request")
	// ErrClosed means the worker no longer accepts requests.
	ErrClosed = errors.New("bots: worker closed")
)

// Worker runs one bot on its own goroutine. Requests and answers pass
// through single-slot channels, so the caller can poll without blocking.
type Worker struct {
	bot       ChessBot
	requests  chan MoveRequest
	responses chan *chess.Move
	done      chan struct{}
	logger    zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// NewWorker starts the worker goroutine for bot. It lives until Close.
func NewWorker(bot ChessBot) *Worker {
	w := &Worker{
		bot:       bot,
		requests:  make(chan MoveRequest, 1),
		responses: make(chan *chess.Move, 1),
		done:      make(chan struct{}),
		logger:    log.With().Str("bot", bot.Name()).Logger(),
	}
	go w.loop()
	return w
}

func (w *Worker) Name() string {
	return w.bot.Name()
}

// Send hands req to the bot. Only one request may be outstanding.
func (w *Worker) Send(req MoveRequest) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	select {
	case w.requests <- req:
		return nil
	default:
		return ErrBusy
	}
}

// TryReceive returns the bot's move if one is ready. It never blocks.
func (w *Worker) TryReceive() (*chess.Move, bool) {
	select {
	case mv := <-w.responses:
		return mv, true
	default:
		return nil, false
	}
}

// Close stops the worker once its current computation, if any, finishes.
// A bot that never returns keeps its goroutine.
func (w *Worker) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.requests)
}

// Done is closed when the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) loop() {
	defer close(w.done)
	for req := range w.requests {
		mv, err := w.compute(req)
		if err != nil {
			// No answer from here on; the match sees it as a silent bot.
			w.logger.Error().Err(err).Str("fen", req.Position.String()).Msg("bot failed, worker stopping")
			return
		}
		w.responses <- mv
	}
	w.logger.Debug().Msg("worker stopped")
}

func (w *Worker) compute(req MoveRequest) (mv *chess.Move, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bot panicked: %v", r)
		}
	}()
	start := time.Now()
	mv = w.bot.BestMove(req)
	if mv == nil {
		return nil, errors.New("bot returned no move")
	}
	w.logger.Debug().
		Str("move", mv.String()).
		Dur("elapsed", time.Since(start)).
		Dur("my_time", req.MyTime).
		Msg("move computed")
	return mv, nil
}
