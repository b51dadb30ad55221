package protocol

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansa-teutonica/internal/game"
)

func TestMessageEnvelope(t *testing.T) {
	action := game.Action{Type: game.ActionClaimPost, Post: game.PostRef{Route: 4, Index: 1}, Shape: game.ShapeCircle}
	msg, err := NewMessage(TypeAction, ActionPayload{Action: action})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.NotZero(t, msg.Timestamp)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"action"`)

	var back Message
	require.NoError(t, json.Unmarshal(data, &back))
	var payload ActionPayload
	require.NoError(t, back.ParsePayload(&payload))
	assert.Equal(t, action, payload.Action)

	back.Payload = json.RawMessage(`[1,2]`)
	assert.Error(t, back.ParsePayload(&payload))
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{game.ErrNotYourTurn, ErrCodeNotYourTurn},
		{errors.Wrap(game.ErrWrongState, "state is Moving"), ErrCodeWrongState},
		{errors.Wrap(game.ErrPostOccupied, "route 3"), ErrCodeInvalidTarget},
		{game.ErrInsufficientSupply, ErrCodeInsufficientPiece},
		{game.ErrRegionTransition, ErrCodeNoPrivilege},
		{game.ErrGameOver, ErrCodeGameOver},
		{game.ErrMarkersOwed, ErrCodeInvalidAction},
		{game.Internalf("test", "broken"), ErrCodeInternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeFor(tt.err), "%v", tt.err)
	}
}
