package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingResolvesOnce(t *testing.T) {
	p := newPending[int]()
	p.resolve(1, nil)
	p.resolve(2, errors.New("late"))

	value, err := p.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestPendingWaitHonoursContext(t *testing.T) {
	p := newPending[string]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	p.resolve("done", nil)
	value, err := p.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "done", value)
}
