package services

import (
	"context"
	"sync"
)

// NoopLocker leaves bid placement unserialized: two bidders can both pass
// validation against the same highest bid before either write lands.
type NoopLocker struct{}

func (NoopLocker) Lock(ctx context.Context, listingID string) (func(), error) {
	return func() {}, nil
}

type keyedMutex struct {
	mu   sync.Mutex
	refs int
}

// LocalLocker serializes bids per listing inside one process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedMutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyedMutex)}
}

func (l *LocalLocker) Lock(ctx context.Context, listingID string) (func(), error) {
	l.mu.Lock()
	km, ok := l.locks[listingID]
	if !ok {
		km = &keyedMutex{}
		l.locks[listingID] = km
	}
	km.refs++
	l.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		km.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return func() { l.release(listingID, km) }, nil
	case <-ctx.Done():
		// The goroutine still takes the mutex eventually; hand it straight back.
		go func() {
			<-acquired
			l.release(listingID, km)
		}()
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) release(listingID string, km *keyedMutex) {
	km.mu.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	km.refs--
	if km.refs == 0 {
		delete(l.locks, listingID)
	}
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
