package services

import (
	"context"
	"fmt"
	"sync"

	"newsroom/app/authz"
	"newsroom/app/events"
	"newsroom/app/models"
	"newsroom/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

type stagedEvent struct {
	Kind        string
	AggregateID int64
	Version     int64
	Payload     interface{}
}

// fakeOutbox records events whose transaction ran
type fakeOutbox struct {
	mutex    sync.Mutex
	staged   []stagedEvent
	notified int
}

func (f *fakeOutbox) Stage(kind string, aggregateID, version int64, payload interface{}) repositories.TxHook {
	return func(*badger.Txn) error {
		f.mutex.Lock()
		defer f.mutex.Unlock()
		f.staged = append(f.staged, stagedEvent{kind, aggregateID, version, payload})
		return nil
	}
}

func (f *fakeOutbox) Notify() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.notified++
}

func (f *fakeOutbox) kinds() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var kinds []string
	for _, e := range f.staged {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// fakeGuard mimics events.Ledger without a transaction
type fakeGuard struct {
	mutex   sync.Mutex
	applied map[string]int64
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{applied: make(map[string]int64)}
}

func (g *fakeGuard) Guard(kind string, aggregateID, version int64) repositories.TxHook {
	return func(*badger.Txn) error {
		if version == 0 {
			return nil
		}
		g.mutex.Lock()
		defer g.mutex.Unlock()
		key := fmt.Sprintf("%s:%d", kind, aggregateID)
		if version <= g.applied[key] {
			return events.ErrStaleEvent
		}
		g.applied[key] = version
		return nil
	}
}

type fakeLookup struct {
	posts     map[int64]bool
	err       error
	calls     int
	lastRole  authz.Role
	forgotten []int64
}

func (f *fakeLookup) GetPost(ctx context.Context, id int64, role authz.Role) (*models.PostResponse, error) {
	f.calls++
	f.lastRole = role
	if f.err != nil {
		return nil, f.err
	}
	if !f.posts[id] {
		return nil, models.NewNotFoundError("post", id)
	}
	return &models.PostResponse{ID: id}, nil
}

func (f *fakeLookup) Forget(id int64) {
	f.forgotten = append(f.forgotten, id)
}
