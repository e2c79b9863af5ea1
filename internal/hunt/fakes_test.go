package hunt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
)

type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]*Profile
	writes   int
	getErr   error
	writeErr error
	// onWrite runs before every write, under no lock.
	onWrite func()
}

func newFakeStore(profiles ...Profile) *fakeStore {
	s := &fakeStore{profiles: map[string]*Profile{}}
	for i := range profiles {
		p := profiles[i]
		s.profiles[p.ID] = &p
	}
	return s
}

func (s *fakeStore) GetProfile(_ context.Context, userID string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) CompareAndSetProgress(_ context.Context, userID string, expected, next int) (*Profile, error) {
	if s.onWrite != nil {
		s.onWrite()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.Progress != expected {
		return nil, common.ErrVersionConflict
	}
	p.Progress = next
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (s *fakeStore) ResetProgress(_ context.Context, userID string) (*Profile, error) {
	if s.onWrite != nil {
		s.onWrite()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Progress = 0
	cp := *p
	return &cp, nil
}

func (s *fakeStore) progress(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID].Progress
}

func (s *fakeStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

var errBoom = errors.New("boom")
