package game

import "github.com/pkg/errors"

// BankUnlimited is the bank value of the last bank step.
const BankUnlimited = 100

// ladders holds the value of every step of each ability track.
var ladders = [numAbilities][]int{
	AbilityKeys:      {1, 2, 2, 3, 4},
	AbilityPrivilege: {1, 2, 3, 4},
	AbilityActions:   {2, 3, 3, 4, 4, 5},
	AbilityBank:      {3, 5, 7, BankUnlimited},
	AbilityBook:      {2, 3, 4, 5},
}

// LadderLength returns the number of steps on a track.
func LadderLength(a Ability) int {
	return len(ladders[a])
}

// Supply is a pool of pieces split by shape.
type Supply struct {
	Squares int `json:"squares"`
	Circles int `json:"circles"`
}

// Count returns the pieces of shape s.
func (s Supply) Count(shape Shape) int {
	switch shape {
	case ShapeSquare:
		return s.Squares
	case ShapeCircle:
		return s.Circles
	default:
		return 0
	}
}

// Total returns all pieces.
func (s Supply) Total() int {
	return s.Squares + s.Circles
}

// Add puts n pieces of shape s into the pool.
func (s *Supply) Add(shape Shape, n int) {
	switch shape {
	case ShapeSquare:
		s.Squares += n
	case ShapeCircle:
		s.Circles += n
	}
}

// Take removes n pieces of shape s, refusing to go negative.
func (s *Supply) Take(shape Shape, n int) error {
	if !shape.Valid() {
		return errors.Wrapf(ErrInvalidShape, "take %d", n)
	}
	if n < 0 || s.Count(shape) < n {
		return errors.Wrapf(ErrInsufficientSupply, "need %d %s, have %d", n, shape, s.Count(shape))
	}
	s.Add(shape, -n)
	return nil
}

// payFrom takes n pieces from s, squares first, and returns what was taken.
func payFrom(s *Supply, n int) (Supply, error) {
	if s.Total() < n {
		return Supply{}, errors.Wrapf(ErrInsufficientSupply, "need %d pieces, have %d", n, s.Total())
	}
	paid := Supply{Squares: min(n, s.Squares)}
	paid.Circles = n - paid.Squares
	s.Squares -= paid.Squares
	s.Circles -= paid.Circles
	return paid, nil
}

// HeldPiece is a piece lifted off the board during a move.
type HeldPiece struct {
	Owner  PlayerID `json:"owner"`
	Shape  Shape    `json:"shape"`
	Region Region   `json:"region"`
}

// Player is one seat at the table.
type Player struct {
	ID             PlayerID          `json:"id"`
	Name           string            `json:"name"`
	Color          string            `json:"color"`
	Order          int               `json:"order"`
	Score          int               `json:"score"`
	FinalScore     int               `json:"finalScore"`
	Levels         [numAbilities]int `json:"levels"`
	General        Supply            `json:"general"`
	Personal       Supply            `json:"personal"`
	Markers        []MarkerKind      `json:"markers,omitempty"`
	UsedMarkers    []MarkerKind      `json:"usedMarkers,omitempty"`
	RegionUses     [numRegions]int   `json:"regionUses"`
	PrestigePoints int               `json:"prestigePoints"`
	EastWestRank   int               `json:"eastWestRank"`
	ActionsLeft    int               `json:"actionsLeft"`
	Holding        []HeldPiece       `json:"holding,omitempty"`
	MoveBudget     int               `json:"moveBudget"`
}

// Value returns the current value of track a.
func (p *Player) Value(a Ability) int {
	return ladders[a][p.Levels[a]]
}

// Maxed reports whether track a is on its last step.
func (p *Player) Maxed(a Ability) bool {
	return p.Levels[a] == len(ladders[a])-1
}

// Upgrade advances track a by one step and adds the piece the step
// uncovers to the personal supply.
func (p *Player) Upgrade(a Ability) error {
	if a < 0 || a >= numAbilities {
		return errors.Wrapf(ErrInvalidTarget, "ability %d", a)
	}
	if p.Maxed(a) {
		return errors.Wrapf(ErrAbilityMaxed, "%s", a)
	}

	before := p.Value(a)
	p.Levels[a]++
	if a == AbilityBook {
		p.Personal.Add(ShapeCircle, 1)
	} else {
		p.Personal.Add(ShapeSquare, 1)
	}

	switch a {
	case AbilityActions:
		if p.Value(a) > before {
			p.ActionsLeft++
		}
	case AbilityPrivilege:
		for _, r := range SpecialRegions {
			p.RegionUses[r]++
		}
	}
	return nil
}

// HasGeneral reports whether the general stock holds shape s.
func (p *Player) HasGeneral(s Shape) bool {
	return p.General.Count(s) > 0
}

// HasPersonal reports whether the personal supply holds shape s.
func (p *Player) HasPersonal(s Shape) bool {
	return p.Personal.Count(s) > 0
}

// collectIncome moves pieces from general stock to personal supply
// within the bank limit.
func (p *Player) collectIncome(squares, circles int) error {
	if squares < 0 || circles < 0 || squares+circles == 0 {
		return errors.Wrapf(ErrInvalidTarget, "income of %d squares and %d circles", squares, circles)
	}
	if limit := p.Value(AbilityBank); squares+circles > limit {
		return errors.Wrapf(ErrInsufficientSupply, "bank allows %d pieces", limit)
	}
	if squares > p.General.Squares || circles > p.General.Circles {
		return errors.Wrapf(ErrInsufficientSupply, "general stock has %d squares and %d circles",
			p.General.Squares, p.General.Circles)
	}
	p.General.Squares -= squares
	p.General.Circles -= circles
	p.Personal.Squares += squares
	p.Personal.Circles += circles
	return nil
}

// HasMarker reports whether an unused marker of kind k is held.
func (p *Player) HasMarker(k MarkerKind) bool {
	for _, m := range p.Markers {
		if m == k {
			return true
		}
	}
	return false
}

// HasUsableMarkers reports whether any held marker can be activated.
func (p *Player) HasUsableMarkers() bool {
	for _, m := range p.Markers {
		if m.Usable() {
			return true
		}
	}
	return false
}

// spendMarker moves one held marker of kind k to the used list.
func (p *Player) spendMarker(k MarkerKind) bool {
	for i, m := range p.Markers {
		if m == k {
			p.Markers = append(p.Markers[:i], p.Markers[i+1:]...)
			p.UsedMarkers = append(p.UsedMarkers, k)
			return true
		}
	}
	return false
}

// MarkerCount counts every marker ever collected.
func (p *Player) MarkerCount() int {
	return len(p.Markers) + len(p.UsedMarkers)
}

// startMove opens a move that may lift up to budget pieces.
func (p *Player) startMove(budget int) {
	p.Holding = nil
	p.MoveBudget = budget
}

// pickUp lifts the occupant of post into the hand.
func (p *Player) pickUp(post *Post, region Region) error {
	if post.Empty() {
		return errors.Wrap(ErrInvalidTarget, "post is empty")
	}
	if p.MoveBudget <= 0 {
		return ErrMoveLimit
	}
	p.Holding = append(p.Holding, HeldPiece{Owner: post.Owner, Shape: post.Shape, Region: region})
	post.Clear()
	p.MoveBudget--
	return nil
}

// placeHeld puts the first held piece on post. Once placing starts no more
// pieces can be lifted.
func (p *Player) placeHeld(post *Post, region Region) error {
	if len(p.Holding) == 0 {
		return ErrNothingHeld
	}
	piece := p.Holding[0]
	switch {
	case !post.Empty():
		return ErrPostOccupied
	case !post.Accepts(piece.Shape):
		return errors.Wrapf(ErrShapeMismatch, "post needs a %s", post.Required)
	case !canEnter(piece.Region, region):
		return errors.Wrapf(ErrRegionTransition, "%s to %s", piece.Region, region)
	}
	post.Set(piece.Owner, piece.Shape)
	p.Holding = p.Holding[1:]
	if len(p.Holding) == 0 {
		p.Holding = nil
	}
	p.MoveBudget = 0
	return nil
}
