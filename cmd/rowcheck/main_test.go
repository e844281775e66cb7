package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckInterruptedReturnsErrorWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, checkInterrupted(ctx), context.Canceled)
}

func TestCheckInterruptedReturnsNilWhenRunning(t *testing.T) {
	assert.NoError(t, checkInterrupted(context.Background()))
}
