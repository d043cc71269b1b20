package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyedMutex_SameKeySerializes(t *testing.T) {
	k := NewKeyedMutex()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, _ := k.Lock(context.Background(), "A1")
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	if maxInside != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxInside)
	}
	if k.Len() != 0 {
		t.Errorf("Len after release = %d, want 0", k.Len())
	}
}

func TestKeyedMutex_DistinctKeysDoNotBlock(t *testing.T) {
	k := NewKeyedMutex()
	releaseA, _ := k.Lock(context.Background(), "A")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB, _ := k.Lock(context.Background(), "B")
		releaseB()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on B blocked behind A")
	}
}

func TestKeyedMutex_ReleaseIdempotent(t *testing.T) {
	k := NewKeyedMutex()
	release, _ := k.Lock(context.Background(), "A")
	release()
	release()
	if k.Len() != 0 {
		t.Errorf("Len = %d, want 0", k.Len())
	}
}
