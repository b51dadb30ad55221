package game

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Rejections. The action is refused, state is unchanged and the same
// player may try again.
var (
	ErrNotYourTurn         = stderrors.New("not your turn")
	ErrWrongState          = stderrors.New("action not allowed in current state")
	ErrInvalidTarget       = stderrors.New("invalid target")
	ErrInvalidShape        = stderrors.New("invalid piece shape")
	ErrPostOccupied        = stderrors.New("post already occupied")
	ErrInsufficientSupply  = stderrors.New("insufficient supply")
	ErrNoActions           = stderrors.New("no actions remaining")
	ErrActionsRemaining    = stderrors.New("actions remaining")
	ErrNoPrivilege         = stderrors.New("insufficient privilege")
	ErrShapeMismatch       = stderrors.New("piece shape does not fit")
	ErrRegionTransition    = stderrors.New("piece cannot cross into that region")
	ErrRouteNotControlled  = stderrors.New("route not fully controlled")
	ErrCityFull            = stderrors.New("city has no free office")
	ErrAbilityMaxed        = stderrors.New("ability already at maximum")
	ErrMoveLimit           = stderrors.New("move limit reached")
	ErrNothingHeld         = stderrors.New("no piece in hand")
	ErrPiecesHeld          = stderrors.New("pieces still in hand")
	ErrNoMarker            = stderrors.New("bonus marker not held")
	ErrMarkersOwed         = stderrors.New("bonus markers must be replaced first")
	ErrUnusedMarkers       = stderrors.New("usable bonus markers held")
	ErrNoDisplacementSpace = stderrors.New("no empty post for the displaced player")
	ErrGameOver            = stderrors.New("game is over")
	ErrConfig              = stderrors.New("invalid game setup")
)

// InternalError marks a broken engine invariant. It is never caused by
// player input and the game cannot continue after one.
type InternalError struct {
	Op    string
	cause error
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Op + ": " + e.cause.Error()
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// internalf builds an InternalError carrying a stack trace.
func internalf(op, format string, args ...any) error {
	return &InternalError{Op: op, cause: errors.Errorf(format, args...)}
}

// internal wraps an unexpected failure from a pre-checked step.
func internal(op string, err error) error {
	return &InternalError{Op: op, cause: errors.WithStack(err)}
}

// Internalf reports a broken invariant found outside the engine, such as
// a snapshot that does not fit its board.
func Internalf(op, format string, args ...any) error {
	return internalf(op, format, args...)
}

// IsInternal reports whether err is or wraps an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
