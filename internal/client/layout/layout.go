// Package layout places board and panel elements on screen and resolves
// a point to the element under it. It draws nothing, so the client and
// its tests share one geometry.
package layout

import (
	"math"

	"hansa-teutonica/internal/game"
)

// Sizes in screen pixels before scaling.
const (
	PanelWidth   = 280
	OfficeSize   = 16
	PostRadius   = 7
	HandleRadius = 6
	HandleOffset = 14
	RowHeight    = 18
	ButtonHeight = 26
	MarkerSlots  = 12

	markerColumns = 4
	playerRows    = 2
	panelPadding  = 8
)

// Kind says what a Target points at.
type Kind int

const (
	KindNone Kind = iota
	KindPost
	KindRoute
	KindCity
	KindOffice
	KindUpgrade
	KindAbility
	KindMarker
	KindButton
)

func (k Kind) String() string {
	switch k {
	case KindPost:
		return "post"
	case KindRoute:
		return "route"
	case KindCity:
		return "city"
	case KindOffice:
		return "office"
	case KindUpgrade:
		return "upgrade"
	case KindAbility:
		return "ability"
	case KindMarker:
		return "marker"
	case KindButton:
		return "button"
	default:
		return "none"
	}
}

// Button is one of the panel's command buttons.
type Button int

const (
	ButtonEndTurn Button = iota
	ButtonSkipMarkers
	ButtonIncome
	ButtonPoints
	ButtonFinish
	ButtonCopy
	NumButtons
)

var buttonLabels = [NumButtons]string{
	ButtonEndTurn:     "End turn",
	ButtonSkipMarkers: "End turn, keep markers",
	ButtonIncome:      "Income",
	ButtonPoints:      "Claim route for points",
	ButtonFinish:      "Finish bonus",
	ButtonCopy:        "Copy tensor (C)",
}

func (b Button) String() string {
	if b < 0 || b >= NumButtons {
		return "unknown"
	}
	return buttonLabels[b]
}

// Target is the element under a point. Only the fields Kind needs are
// set: Post for posts, Route for route handles, City and Index for
// cities, offices and upgrades, Index for markers.
type Target struct {
	Kind    Kind
	Post    game.PostRef
	Route   game.RouteID
	City    game.CityID
	Index   int
	Ability game.Ability
	Button  Button
}

// Point is a screen position.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the middle of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Layout maps map coordinates to the screen. The board takes the left
// part of the window and the panel the right PanelWidth pixels.
type Layout struct {
	Width, Height int

	scale float64
}

// New fits a mapW×mapH map next to the panel in a width×height window.
func New(mapW, mapH, width, height int) *Layout {
	l := &Layout{Width: width, Height: height, scale: 1}
	boardW := float64(width - PanelWidth)
	if mapW > 0 && mapH > 0 && boardW > 0 {
		l.scale = math.Min(boardW/float64(mapW), float64(height)/float64(mapH))
	}
	return l
}

// Scale returns the map to screen factor.
func (l *Layout) Scale() float64 {
	return l.scale
}

// CityCenter returns where c is drawn.
func (l *Layout) CityCenter(c *game.City) Point {
	return Point{X: c.X * l.scale, Y: c.Y * l.scale}
}

// CityBody is the box holding c's offices.
func (l *Layout) CityBody(c *game.City) Rect {
	center := l.CityCenter(c)
	n := max(len(c.Offices), 1)
	w := float64(n*OfficeSize + 4)
	return Rect{X: center.X - w/2, Y: center.Y - OfficeSize/2 - 2, W: w, H: OfficeSize + 4}
}

// Office returns the slot of office i in c.
func (l *Layout) Office(c *game.City, i int) Rect {
	body := l.CityBody(c)
	return Rect{X: body.X + 2 + float64(i*OfficeSize), Y: body.Y + 2, W: OfficeSize, H: OfficeSize}
}

// Upgrade returns the icon of c's upgrade i, drawn under the city.
func (l *Layout) Upgrade(c *game.City, i int) Rect {
	body := l.CityBody(c)
	center := l.CityCenter(c)
	left := center.X - float64(len(c.Upgrades)*OfficeSize)/2
	return Rect{X: left + float64(i*OfficeSize), Y: body.Y + body.H + 2, W: OfficeSize - 2, H: OfficeSize - 2}
}

// Post returns the center of post i on r. Posts are spread evenly
// between the two cities.
func (l *Layout) Post(b *game.Board, r *game.Route, i int) Point {
	a, z := l.ends(b, r)
	t := float64(i+1) / float64(len(r.Posts)+1)
	return Point{X: a.X + (z.X-a.X)*t, Y: a.Y + (z.Y-a.Y)*t}
}

// Handle returns the route's selection knob, beside the route's middle.
func (l *Layout) Handle(b *game.Board, r *game.Route) Point {
	a, z := l.ends(b, r)
	dx, dy := z.X-a.X, z.Y-a.Y
	length := math.Hypot(dx, dy)
	mid := Point{X: (a.X + z.X) / 2, Y: (a.Y + z.Y) / 2}
	if length == 0 {
		return mid
	}
	return Point{X: mid.X - dy/length*HandleOffset, Y: mid.Y + dx/length*HandleOffset}
}

func (l *Layout) ends(b *game.Board, r *game.Route) (Point, Point) {
	return l.CityCenter(b.City(r.Cities[0])), l.CityCenter(b.City(r.Cities[1]))
}

// Panel is the side panel area.
func (l *Layout) Panel() Rect {
	return Rect{X: float64(l.Width - PanelWidth), Y: 0, W: PanelWidth, H: float64(l.Height)}
}

// Status is where the one-line state summary starts.
func (l *Layout) Status() Point {
	p := l.Panel()
	return Point{X: p.X + panelPadding, Y: panelPadding}
}

// PlayerRow is where seat i's summary starts.
func (l *Layout) PlayerRow(i int) Point {
	p := l.Panel()
	return Point{X: p.X + panelPadding, Y: 2*RowHeight + float64(i*playerRows*RowHeight)}
}

func (l *Layout) detailTop() float64 {
	return 2*RowHeight + float64(game.MaxPlayers*playerRows*RowHeight) + RowHeight
}

// Ability returns the row of track a for the seat being shown.
func (l *Layout) Ability(a game.Ability) Rect {
	p := l.Panel()
	return Rect{
		X: p.X + panelPadding,
		Y: l.detailTop() + float64(int(a)*RowHeight),
		W: PanelWidth - 2*panelPadding,
		H: RowHeight - 2,
	}
}

// Marker returns slot i of the held bonus markers.
func (l *Layout) Marker(i int) Rect {
	p := l.Panel()
	w := float64((PanelWidth - 2*panelPadding) / markerColumns)
	top := l.detailTop() + float64(len(game.Abilities)*RowHeight) + RowHeight
	return Rect{
		X: p.X + panelPadding + float64(i%markerColumns)*w,
		Y: top + float64(i/markerColumns*RowHeight),
		W: w - 4,
		H: RowHeight - 2,
	}
}

// Button returns the rectangle of b. Buttons stack at the panel bottom.
func (l *Layout) Button(b Button) Rect {
	p := l.Panel()
	top := float64(l.Height) - float64(int(NumButtons)*(ButtonHeight+4)) - panelPadding
	return Rect{
		X: p.X + panelPadding,
		Y: top + float64(int(b)*(ButtonHeight+4)),
		W: PanelWidth - 2*panelPadding,
		H: ButtonHeight,
	}
}

// HitTest resolves (x, y). markers is the number of marker slots in use.
// Panel elements win over the board; on the board posts win over cities
// and cities over route handles.
func (l *Layout) HitTest(b *game.Board, markers int, x, y float64) Target {
	if l.Panel().Contains(x, y) {
		return l.hitPanel(markers, x, y)
	}
	if b == nil {
		return Target{}
	}

	for _, r := range b.Routes {
		for i := range r.Posts {
			if within(l.Post(b, r, i), x, y, PostRadius+1) {
				return Target{Kind: KindPost, Post: game.PostRef{Route: r.ID, Index: i}, Route: r.ID}
			}
		}
	}
	for _, c := range b.Cities {
		for i := range c.Offices {
			if l.Office(c, i).Contains(x, y) {
				return Target{Kind: KindOffice, City: c.ID, Index: i}
			}
		}
		for i := range c.Upgrades {
			if l.Upgrade(c, i).Contains(x, y) {
				return Target{Kind: KindUpgrade, City: c.ID, Index: i}
			}
		}
		if l.CityBody(c).Contains(x, y) {
			return Target{Kind: KindCity, City: c.ID}
		}
	}
	for _, r := range b.Routes {
		if within(l.Handle(b, r), x, y, HandleRadius+1) {
			return Target{Kind: KindRoute, Route: r.ID}
		}
	}
	return Target{}
}

func (l *Layout) hitPanel(markers int, x, y float64) Target {
	for btn := Button(0); btn < NumButtons; btn++ {
		if l.Button(btn).Contains(x, y) {
			return Target{Kind: KindButton, Button: btn}
		}
	}
	for _, a := range game.Abilities {
		if l.Ability(a).Contains(x, y) {
			return Target{Kind: KindAbility, Ability: a}
		}
	}
	for i := 0; i < min(markers, MarkerSlots); i++ {
		if l.Marker(i).Contains(x, y) {
			return Target{Kind: KindMarker, Index: i}
		}
	}
	return Target{}
}

func within(p Point, x, y, radius float64) bool {
	return math.Hypot(p.X-x, p.Y-y) <= radius
}
