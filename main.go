package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chessbots/bots"
	"chessbots/config"
	"chessbots/game"
	"chessbots/matchlog"
)

// Место под строку состояния сверху
const statusHeight = 60

var (
	lightSquare = color.RGBA{240, 217, 181, 255} // светлые клетки
	darkSquare  = color.RGBA{181, 136, 99, 255}  // темные клетки
)

// Viewer shows a running match. It never touches the game itself; every
// frame it advances the match once and draws the latest state.
type Viewer struct {
	match        *game.Match
	whiteName    string
	blackName    string
	squareSize   int
	boardOffsetX int
	boardOffsetY int
	width        int
	height       int
	squares      [2]*ebiten.Image
}

func NewViewer(m *game.Match, white, black string, squareSize int) *Viewer {
	v := &Viewer{
		match:        m,
		whiteName:    white,
		blackName:    black,
		squareSize:   squareSize,
		boardOffsetX: squareSize / 2,
		boardOffsetY: statusHeight,
	}
	v.width = squareSize*8 + 2*v.boardOffsetX
	v.height = squareSize*8 + statusHeight + squareSize/2
	for i, clr := range []color.Color{lightSquare, darkSquare} {
		img := ebiten.NewImage(squareSize, squareSize)
		img.Fill(clr)
		v.squares[i] = img
	}
	return v
}

func (v *Viewer) Update() error {
	v.match.Tick()
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	s := v.match.State()

	// Рисуем доску
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*v.squareSize+v.boardOffsetX), float64(y*v.squareSize+v.boardOffsetY))
			screen.DrawImage(v.squares[(x+y)%2], op)
		}
	}

	// Рисуем фигуры буквами
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sq := chess.NewSquare(chess.File(x), chess.Rank(7-y))
			piece := s.Board.Piece(sq)
			if piece == chess.NoPiece {
				continue
			}
			ebitenutil.DebugPrintAt(screen, pieceLetter(piece),
				x*v.squareSize+v.boardOffsetX+v.squareSize/2-3,
				y*v.squareSize+v.boardOffsetY+v.squareSize/2-8)
		}
	}

	// Статус игры
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("White: %s  %s", v.whiteName, formatClock(s.White)), 10, 6)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Black: %s  %s", v.blackName, formatClock(s.Black)), 10, 22)
	status := fmt.Sprintf("%s to move, ply %d", s.Turn.Name(), s.Plies)
	if s.Result != nil {
		status = "Result: " + s.Result.String()
	}
	ebitenutil.DebugPrintAt(screen, status, 10, 38)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

// pieceLetter is the FEN letter of p: upper case for white.
func pieceLetter(p chess.Piece) string {
	letter := p.Type().String()
	if p.Color() == chess.White {
		return strings.ToUpper(letter)
	}
	return letter
}

func formatClock(d time.Duration) string {
	d = d.Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%d:%04.1f", int(d.Minutes()), (d % time.Minute).Seconds())
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	configPath := flag.String("config", "", "config file (default $CHESSBOTS_CONFIG)")
	flag.String(config.KeyWhiteBot, "greedy-trade", "bot playing white")
	flag.String(config.KeyBlackBot, "random", "bot playing black")
	flag.Duration(config.KeyTimeControl, time.Minute, "time budget for each side")
	flag.Int(config.KeyMaxPlies, 0, "draw the match after this many plies (0: no limit)")
	flag.Duration(config.KeyTickInterval, 10*time.Millisecond, "how often the match is advanced")
	flag.String(config.KeyStartFEN, "", "start from this FEN instead of the initial position")
	flag.String(config.KeyDBPath, "chessbots.db", "record the finished match in this sqlite database")
	flag.Bool(config.KeyDebug, false, "debug logging")
	squareSize := flag.Int("square", 80, "square size in pixels")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	cfg.ApplyFlags(flag.CommandLine)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	ms, err := cfg.Match()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	white, err := bots.New(ms.WhiteBot)
	if err != nil {
		log.Fatal().Err(err).Msg("white")
	}
	black, err := bots.New(ms.BlackBot)
	if err != nil {
		log.Fatal().Err(err).Msg("black")
	}
	m, err := game.NewMatch(bots.NewWorker(white), bots.NewWorker(black), game.Options{
		TimeControl: ms.TimeControl,
		StartFEN:    ms.StartFEN,
		MaxPlies:    ms.MaxPlies,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("new match")
	}
	defer m.Close()

	if path := cfg.DBPath(); path != "" {
		m.OnResult(func(game.Result) {
			if err := record(path, ms.WhiteBot, ms.BlackBot, m); err != nil {
				log.Error().Err(err).Str("db", path).Msg("store match")
			}
		})
	}

	v := NewViewer(m, white.Name(), black.Name(), *squareSize)
	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowTitle(fmt.Sprintf("%s vs %s", white.Name(), black.Name()))
	ebiten.SetTPS(ticksPerSecond(ms.TickInterval))
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal().Err(err).Msg("viewer")
	}
}

func ticksPerSecond(interval time.Duration) int {
	tps := int(time.Second / interval)
	if tps < 1 {
		return 1
	}
	return tps
}

func record(path, white, black string, m *game.Match) error {
	repo, err := matchlog.Open(path)
	if err != nil {
		return err
	}
	defer repo.Close()
	rec, err := matchlog.NewRecord(white, black, m, time.Now())
	if err != nil {
		return err
	}
	return repo.Insert(&rec)
}
