package voting

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()
	key := pairKey{voterID: 1, itemID: 1}

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.lock(key)
			defer unlock()
			counter++ // would race without the lock
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyedMutexDistinctKeysDoNotBlock(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.lock(pairKey{voterID: 1, itemID: 1})

	done := make(chan struct{})
	go func() {
		unlockB := km.lock(pairKey{voterID: 2, itemID: 1})
		unlockB()
		close(done)
	}()

	<-done // must complete while key A is still held
	unlockA()
}

func TestKeyedMutexCleansUpEntries(t *testing.T) {
	km := newKeyedMutex()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			unlock := km.lock(pairKey{voterID: n, itemID: n % 3})
			unlock()
		}(i)
	}
	wg.Wait()

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks)
}
