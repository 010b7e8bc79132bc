package fsmtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librescoot/microfsm"
)

func TestRecorder(t *testing.T) {
	var rec Recorder
	assert.Nil(t, rec.Last())

	_, err := microfsm.New(nil, 1, rec.Option())
	require.ErrorIs(t, err, microfsm.ErrNilState)
	_, err = microfsm.New(microfsm.NewState("s", nil), 1, rec.Option())
	require.ErrorIs(t, err, microfsm.ErrNilState)

	assert.Equal(t, 2, rec.Count())
	assert.Len(t, rec.Faults(), 2)
	assert.Equal(t, "new", rec.Last().Op)

	rec.Reset()
	assert.Zero(t, rec.Count())
}
