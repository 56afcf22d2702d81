package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransmissionStateStorage(t *testing.T) {
	v, err := StateNotSent.Value()
	require.NoError(t, err)
	assert.Nil(t, v, "not_sent must be stored as NULL")

	v, err = StateError.Value()
	require.NoError(t, err)
	assert.Equal(t, "error", v)

	var s TransmissionState
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, StateNotSent, s)
	require.NoError(t, s.Scan([]byte("sent")))
	assert.Equal(t, StateSent, s)
	assert.Error(t, s.Scan("queued"))
}

func TestTransmissionStateTransitions(t *testing.T) {
	assert.True(t, StateNotSent.CanTransition(StateSent))
	assert.True(t, StateNotSent.CanTransition(StateError))
	assert.True(t, StateError.CanTransition(StateSent))
	assert.True(t, StateError.CanTransition(StateError))
	assert.False(t, StateSent.CanTransition(StateError))
	assert.False(t, StateSent.CanTransition(StateSent))
	assert.False(t, StateError.CanTransition(StateNotSent))
}

func TestTransmissionStateJSON(t *testing.T) {
	b, err := json.Marshal(map[string]TransmissionState{"s": StateNotSent})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"not_sent"}`, string(b))

	var s TransmissionState
	require.NoError(t, json.Unmarshal([]byte(`"error"`), &s))
	assert.Equal(t, StateError, s)
}
