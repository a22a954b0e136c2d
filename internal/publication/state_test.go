package publication

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitial(t *testing.T) {
	assert.Equal(t, Draft, Initial(false))
	assert.Equal(t, Published, Initial(true))
}

func TestTransitionIsIdempotent(t *testing.T) {
	tests := []struct {
		from State
		on   Event
		want State
	}{
		{Draft, Publish, Published},
		{Published, Publish, Published},
		{Published, Unpublish, Draft},
		{Draft, Unpublish, Draft},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.on), func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.from, tt.on))
		})
	}
}

func TestApplyOnlyPersistsChanges(t *testing.T) {
	ctx := context.Background()
	var writes []bool
	persist := func(_ context.Context, published bool) error {
		writes = append(writes, published)
		return nil
	}

	state, changed, err := Apply(ctx, Draft, Publish, persist)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, Published, state)

	state, changed, err = Apply(ctx, state, Publish, persist)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, Published, state)

	assert.Equal(t, []bool{true}, writes)
}

func TestApplyKeepsStateOnFailure(t *testing.T) {
	boom := errors.New("write failed")

	state, changed, err := Apply(context.Background(), Published, Unpublish, func(context.Context, bool) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, changed)
	assert.Equal(t, Published, state)
}

func TestParseEvent(t *testing.T) {
	e, err := ParseEvent("publish")
	require.NoError(t, err)
	assert.Equal(t, Publish, e)

	_, err = ParseEvent("archive")
	assert.Error(t, err)
}
