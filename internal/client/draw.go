package client

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"hansa-teutonica/internal/client/layout"
	"hansa-teutonica/internal/game"
)

// Colors used in the UI
var (
	ColorBackground     = color.RGBA{20, 20, 30, 255}
	ColorPanel          = color.RGBA{30, 35, 50, 255}
	ColorPanelLight     = color.RGBA{45, 50, 70, 255}
	ColorPrimary        = color.RGBA{70, 130, 180, 255}
	ColorPrimaryHover   = color.RGBA{100, 160, 210, 255}
	ColorSecondary      = color.RGBA{60, 60, 80, 255}
	ColorSecondaryHover = color.RGBA{80, 80, 100, 255}
	ColorSuccess        = color.RGBA{50, 150, 80, 255}
	ColorDanger         = color.RGBA{180, 60, 60, 255}
	ColorBorder         = color.RGBA{60, 65, 80, 255}
	ColorRoute          = color.RGBA{120, 100, 70, 255}
	ColorRegion         = color.RGBA{90, 120, 90, 255}
	ColorEmptyPost      = color.RGBA{200, 190, 160, 255}
)

// PlayerColors maps game.PlayerColors to screen colors.
var PlayerColors = map[string]color.RGBA{
	"red":    {200, 50, 50, 255},
	"blue":   {80, 100, 200, 255},
	"green":  {50, 180, 50, 255},
	"yellow": {220, 200, 50, 255},
	"purple": {160, 80, 200, 255},
}

var officeColors = map[game.OfficeColor]color.RGBA{
	game.ColorWhite:  {200, 200, 200, 255},
	game.ColorOrange: {220, 140, 50, 255},
	game.ColorPurple: {140, 80, 170, 255},
	game.ColorBlack:  {50, 50, 50, 255},
	game.ColorGreen:  {60, 140, 70, 255},
}

var markerLabels = map[game.MarkerKind]string{
	game.MarkerPlaceAdjacent:   "ADJ",
	game.MarkerSwapOffice:      "SWP",
	game.MarkerUpgradeAbility:  "UPG",
	game.MarkerMove3:           "MV3",
	game.MarkerExtraActions3:   "+3",
	game.MarkerExtraActions4:   "+4",
	game.MarkerMoveAny2:        "MV2",
	game.MarkerGreenCity:       "GRN",
	game.MarkerPlace2FromRoute: "P2R",
	game.MarkerPlace2Regional:  "P2W",
}

func playerColor(g *game.Game, id game.PlayerID) color.RGBA {
	if p := g.Player(id); p != nil {
		if c, ok := PlayerColors[p.Color]; ok {
			return c
		}
	}
	return ColorEmptyPost
}

// DrawPanel draws a panel background.
func DrawPanel(screen *ebiten.Image, r layout.Rect) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), ColorPanel, false)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, ColorBorder, false)
}

// DrawText draws debug-font text at a position.
func DrawText(screen *ebiten.Image, text string, x, y float64) {
	ebitenutil.DebugPrintAt(screen, text, int(x), int(y))
}

// DrawTextCentered draws text centered on x.
func DrawTextCentered(screen *ebiten.Image, text string, x, y float64) {
	w := float64(len(text) * 6)
	ebitenutil.DebugPrintAt(screen, text, int(x-w/2), int(y))
}

// drawPiece draws a trader (square) or merchant (circle) centered on p.
func drawPiece(screen *ebiten.Image, p layout.Point, s game.Shape, size float64, clr color.Color) {
	switch s {
	case game.ShapeSquare:
		vector.DrawFilledRect(screen, float32(p.X-size), float32(p.Y-size), float32(2*size), float32(2*size), clr, false)
	case game.ShapeCircle:
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(size), clr, true)
	}
}

func (a *App) drawBoard(screen *ebiten.Image, g *game.Game) {
	b := g.Board
	l := a.layout

	for _, r := range b.Routes {
		from := l.CityCenter(b.City(r.Cities[0]))
		to := l.CityCenter(b.City(r.Cities[1]))
		clr := ColorRoute
		if r.Region.Special() {
			clr = ColorRegion
		}
		if r.ID == a.selected {
			clr = ColorPrimaryHover
		}
		vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), 3, clr, true)

		h := l.Handle(b, r)
		vector.DrawFilledCircle(screen, float32(h.X), float32(h.Y), layout.HandleRadius, ColorSecondary, true)
		if label := routeMarkerLabel(r); label != "" {
			DrawText(screen, label, h.X+layout.HandleRadius+2, h.Y-8)
		}

		for i, post := range r.Posts {
			a.drawPost(screen, g, l.Post(b, r, i), post)
		}
	}

	for _, c := range b.Cities {
		body := l.CityBody(c)
		DrawPanel(screen, body)
		for i, o := range c.Offices {
			slot := l.Office(c, i)
			oc := officeColors[o.Color]
			vector.DrawFilledRect(screen, float32(slot.X), float32(slot.Y), float32(slot.W), float32(slot.H), oc, false)
			if o.Claimed() {
				drawPiece(screen, slot.Center(), o.Shape, layout.OfficeSize/2-3, playerColor(g, o.Controller))
			} else if o.Shape == game.ShapeCircle {
				vector.StrokeCircle(screen, float32(slot.Center().X), float32(slot.Center().Y), layout.OfficeSize/2-3, 1, ColorBackground, true)
			}
		}
		for i, u := range c.Upgrades {
			icon := l.Upgrade(c, i)
			vector.DrawFilledRect(screen, float32(icon.X), float32(icon.Y), float32(icon.W), float32(icon.H), ColorPrimary, false)
			DrawText(screen, strings.ToUpper(u.String()[:1]), icon.X+4, icon.Y-1)
		}
		DrawTextCentered(screen, c.Name, body.Center().X, body.Y-16)
	}
}

func (a *App) drawPost(screen *ebiten.Image, g *game.Game, p layout.Point, post game.Post) {
	outline := ColorBorder
	if post.Highlighted {
		outline = ColorSuccess
	}
	if post.Empty() {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), layout.PostRadius, ColorEmptyPost, true)
		if post.Required == game.ShapeCircle {
			vector.StrokeCircle(screen, float32(p.X), float32(p.Y), layout.PostRadius-3, 1, ColorBackground, true)
		}
	} else {
		drawPiece(screen, p, post.Shape, layout.PostRadius-1, playerColor(g, post.Owner))
	}
	vector.StrokeCircle(screen, float32(p.X), float32(p.Y), layout.PostRadius, 2, outline, true)
}

func routeMarkerLabel(r *game.Route) string {
	var parts []string
	if r.Marker != game.MarkerNone {
		parts = append(parts, markerLabels[r.Marker])
	}
	if r.Permanent != game.MarkerNone {
		parts = append(parts, "*"+markerLabels[r.Permanent])
	}
	return strings.Join(parts, " ")
}

func (a *App) drawPanel(screen *ebiten.Image, g *game.Game) {
	l := a.layout
	DrawPanel(screen, l.Panel())

	s := l.Status()
	DrawText(screen, statusLine(g), s.X, s.Y)

	for i, p := range g.Players {
		row := l.PlayerRow(i)
		vector.DrawFilledRect(screen, float32(row.X), float32(row.Y+3), 10, 10, playerColor(g, p.ID), false)
		marker := " "
		if p.ID == g.Active() {
			marker = ">"
		}
		DrawText(screen, fmt.Sprintf("%s%s  %d pts  %d act", marker, p.Name, p.Score, p.ActionsLeft), row.X+14, row.Y)
		DrawText(screen, fmt.Sprintf("supply %d/%d  stock %d/%d  bonus %d",
			p.Personal.Squares, p.Personal.Circles, p.General.Squares, p.General.Circles, len(p.Markers)),
			row.X+14, row.Y+layout.RowHeight-2)
	}

	seat := a.driver.Seat()
	if p := g.Player(seat); p != nil {
		for _, ab := range game.Abilities {
			r := l.Ability(ab)
			vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), ColorPanelLight, false)
			text := fmt.Sprintf("%-10s %d", ab, p.Value(ab))
			if p.Maxed(ab) {
				text += " (max)"
			}
			DrawText(screen, text, r.X+4, r.Y)
		}
		for i, m := range p.Markers {
			if i >= layout.MarkerSlots {
				break
			}
			r := l.Marker(i)
			vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), ColorSecondary, false)
			DrawText(screen, markerLabels[m], r.X+4, r.Y)
		}
	}

	mx, my := ebiten.CursorPosition()
	for b := layout.Button(0); b < layout.NumButtons; b++ {
		drawButton(screen, l.Button(b), b.String(), l.Button(b).Contains(float64(mx), float64(my)))
	}

	if a.status != "" {
		top := l.Button(0)
		DrawText(screen, a.status, top.X, top.Y-layout.RowHeight-2)
	}
}

// drawButton renders a panel button, lighter under the cursor.
func drawButton(screen *ebiten.Image, r layout.Rect, label string, hovered bool) {
	bg := ColorSecondary
	if hovered {
		bg = ColorSecondaryHover
	}
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), bg, false)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, ColorBorder, false)
	c := r.Center()
	DrawTextCentered(screen, label, c.X, c.Y-8)
}

// statusLine summarizes the engine state in one line.
func statusLine(g *game.Game) string {
	if g.IsOver() {
		names := make([]string, 0, len(g.Winners))
		for _, w := range g.Winners {
			if p := g.Player(w); p != nil {
				names = append(names, p.Name)
			}
		}
		return fmt.Sprintf("Game over: %s wins", strings.Join(names, ", "))
	}

	active := g.Player(g.Active())
	name := ""
	if active != nil {
		name = active.Name
	}
	switch g.State.Kind {
	case game.StateDisplacement:
		return fmt.Sprintf("%s replaces a displaced piece", name)
	case game.StateBonusEffect:
		if g.State.Effect != nil {
			return fmt.Sprintf("%s: %s (%d left)", name, g.State.Effect.Kind, g.State.Effect.Remaining)
		}
	case game.StateMoving:
		return fmt.Sprintf("%s is moving pieces", name)
	}
	if g.MarkersOwed > 0 {
		return fmt.Sprintf("%s places %d bonus marker(s)", name, g.MarkersOwed)
	}
	return fmt.Sprintf("%s to play", name)
}
