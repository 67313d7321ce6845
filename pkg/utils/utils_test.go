package utils

import (
	"context"
	"sync"
	"testing"

	"smc-analyzer/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestShouldContinue(t *testing.T) {
	log := logger.NewNop()
	ctx, cancel := context.WithCancel(context.Background())

	assert.True(t, ShouldContinue(ctx, log))
	cancel()
	assert.False(t, ShouldContinue(ctx, log))
}

func TestGoSafeRecovers(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	GoSafe(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()
}
