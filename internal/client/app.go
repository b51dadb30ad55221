// Package client is the desktop client: it draws a game with ebiten and
// plays it through a play.Driver.
package client

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.design/x/clipboard"

	"hansa-teutonica/internal/client/layout"
	"hansa-teutonica/internal/client/play"
	"hansa-teutonica/internal/config"
	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/session"
	"hansa-teutonica/pkg/maps"
)

// App is the ebiten game: it draws the driver's game and turns clicks
// into actions.
type App struct {
	driver play.Driver
	layout *layout.Layout
	mapW   int
	mapH   int

	cfgMu   sync.Mutex
	cfg     config.ClientConfig
	pending *config.ClientConfig

	selected game.RouteID
	status   string

	clipOnce sync.Once
	clipErr  error
}

// NewApp builds a client for a game on map m.
func NewApp(cfg config.ClientConfig, m *maps.Map, d play.Driver) *App {
	return &App{
		driver:   d,
		layout:   layout.New(m.Width, m.Height, cfg.Width, cfg.Height),
		mapW:     m.Width,
		mapH:     m.Height,
		cfg:      cfg,
		selected: -1,
	}
}

// SetConfig queues new display settings. It is safe to call from the
// config watcher; the change applies on the next update.
func (a *App) SetConfig(cfg config.ClientConfig) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	a.pending = &cfg
}

func (a *App) applyConfig() {
	a.cfgMu.Lock()
	next := a.pending
	a.pending = nil
	a.cfgMu.Unlock()
	if next == nil {
		return
	}

	if next.Title != a.cfg.Title {
		ebiten.SetWindowTitle(next.Title)
	}
	if next.Width != a.cfg.Width || next.Height != a.cfg.Height {
		a.layout = layout.New(a.mapW, a.mapH, next.Width, next.Height)
	}
	a.cfg = *next
	logs.Info("client settings reloaded", zap.Int("width", a.cfg.Width), zap.Int("height", a.cfg.Height))
}

// Update handles input. A non-nil error stops the game loop.
func (a *App) Update() error {
	a.applyConfig()

	if err := a.report(a.driver.Poll()); err != nil {
		return err
	}

	g := a.driver.Game()
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.selected = -1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copyTensor()
	}

	var shape game.Shape
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		shape = game.ShapeSquare
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		shape = game.ShapeCircle
	default:
		return nil
	}

	x, y := ebiten.CursorPosition()
	var board *game.Board
	markers := 0
	if g != nil {
		board = g.Board
		if p := g.Player(a.driver.Seat()); p != nil {
			markers = len(p.Markers)
		}
	}
	target := a.layout.HitTest(board, markers, float64(x), float64(y))
	mods := play.Modifiers{Shape: shape, Adjacent: ebiten.IsKeyPressed(ebiten.KeyShift)}
	cmd := play.Intent(g, a.driver.Seat(), target, mods, a.selected)
	return a.run(target, cmd)
}

func (a *App) run(target layout.Target, cmd play.Command) error {
	switch {
	case cmd.Copy:
		a.copyTensor()
	case cmd.Action != nil:
		err := a.driver.Submit(*cmd.Action)
		if err == nil {
			a.selected = -1
			a.status = ""
			return nil
		}
		return a.report(err)
	case cmd.Select >= 0:
		a.selected = cmd.Select
	case target.Kind == layout.KindRoute:
		a.selected = -1
	}
	return nil
}

// report shows a rejected action in the panel. Errors that mean the
// game can no longer be trusted are returned to stop the client.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	var remote *play.RemoteError
	switch {
	case game.IsInternal(err), errors.Is(err, session.ErrAborted):
		logs.Error("game state is inconsistent", zap.Error(err))
		return err
	case errors.As(err, &remote) && remote.Fatal():
		logs.Error("server aborted the game", zap.Error(err))
		return err
	}
	logs.Info("action rejected", zap.Error(err))
	a.status = err.Error()
	return nil
}

func (a *App) copyTensor() {
	text, err := a.driver.Tensor()
	if err != nil {
		a.status = err.Error()
		return
	}
	if !a.cfg.Clipboard {
		logs.Info("tensor snapshot", zap.String("tensor", text))
		a.status = "tensor written to log"
		return
	}

	a.clipOnce.Do(func() { a.clipErr = clipboard.Init() })
	if a.clipErr != nil {
		logs.Warn("clipboard unavailable", zap.Error(a.clipErr))
		logs.Info("tensor snapshot", zap.String("tensor", text))
		a.status = "clipboard unavailable, tensor written to log"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	a.status = "tensor copied"
}

// Draw renders the game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	g := a.driver.Game()
	if g == nil {
		ebitenutil.DebugPrintAt(screen, "Waiting for the server...", 20, 20)
		return
	}
	a.drawBoard(screen, g)
	a.drawPanel(screen, g)
}

// Layout keeps the logical screen at the configured size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Width, a.cfg.Height
}
