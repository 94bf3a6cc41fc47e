package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionLocks_ExclusivePerSession(t *testing.T) {
	locks := NewSessionLocks()

	var inFlight int32
	var maxObserved int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Acquire("shared-session")
			defer release()

			n := atomic.AddInt32(&inFlight, 1)
			for {
				max := atomic.LoadInt32(&maxObserved)
				if n <= max || atomic.CompareAndSwapInt32(&maxObserved, max, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxObserved))
}

func TestSessionLocks_DisjointSessionsDoNotBlockEachOther(t *testing.T) {
	locks := NewSessionLocks()
	releaseA := locks.Acquire("a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		release := locks.Acquire("b")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquiring a disjoint session id blocked")
	}
}
