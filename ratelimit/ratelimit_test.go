package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinWindow(t *testing.T) {
	l := NewLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("fp1"), "request %d should fit the window", i+1)
	}
	assert.False(t, l.Allow("fp1"))
	assert.True(t, l.Allow("fp2"), "keys are limited independently")
}

func TestWindowResets(t *testing.T) {
	l := NewLimiter(time.Minute, 1)

	current := time.Now()
	l.now = func() time.Time { return current }

	assert.True(t, l.Allow("fp1"))
	assert.False(t, l.Allow("fp1"))

	current = current.Add(61 * time.Second)
	assert.True(t, l.Allow("fp1"), "expired window must reset on next request")
}

func TestAllowConcurrent(t *testing.T) {
	l := NewLimiter(time.Minute, 50)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("fp1") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), allowed.Load())
}
