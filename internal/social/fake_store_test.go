package social

import (
	"context"
	"strconv"
	"sync"
)

// fakeStore is an in-memory Store and FeedStore. Updates run on copies and
// are swapped in only when fn succeeds, matching the atomicity contract.
type fakeStore struct {
	mu            sync.Mutex
	users         map[string]*Relations
	notifications map[string][]Notification
	seq           int

	pullErr error
}

func newFakeStore(ids ...string) *fakeStore {
	s := &fakeStore{
		users:         make(map[string]*Relations),
		notifications: make(map[string][]Notification),
	}
	for _, id := range ids {
		s.users[id] = NewRelations(id)
	}
	return s
}

func (s *fakeStore) relations(id string) *Relations {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.users[id]
	if !ok {
		return nil
	}
	return r.Clone()
}

func (s *fakeStore) UpdatePair(_ context.Context, firstID, secondID string, fn func(first, second *Relations) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	first, ok := s.users[firstID]
	if !ok {
		return ErrNotFound
	}
	second, ok := s.users[secondID]
	if !ok {
		return ErrNotFound
	}
	a, b := first.Clone(), second.Clone()
	if err := fn(a, b); err != nil {
		return err
	}
	s.users[firstID], s.users[secondID] = a, b
	return nil
}

func (s *fakeStore) UpdateOne(_ context.Context, userID string, fn func(r *Relations) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	cp := r.Clone()
	if err := fn(cp); err != nil {
		return err
	}
	s.users[userID] = cp
	return nil
}

func (s *fakeStore) PullMember(_ context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pullErr != nil {
		return s.pullErr
	}
	for _, r := range s.users {
		r.Connections.Remove(memberID)
		r.ConnectionRequests.Remove(memberID)
		r.SentConnectionRequests.Remove(memberID)
		r.Likes.Remove(memberID)
	}
	return nil
}

func (s *fakeStore) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrNotFound
	}
	delete(s.users, userID)
	delete(s.notifications, userID)
	return nil
}

func (s *fakeStore) AppendNotification(_ context.Context, n Notification) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[n.OwnerID]; !ok {
		return Notification{}, ErrNotFound
	}
	s.seq++
	n.ID = strconv.Itoa(s.seq)
	s.notifications[n.OwnerID] = append(s.notifications[n.OwnerID], n)
	return n, nil
}

func (s *fakeStore) Notifications(_ context.Context, ownerID string) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[ownerID]; !ok {
		return nil, ErrNotFound
	}
	return append([]Notification(nil), s.notifications[ownerID]...), nil
}

func (s *fakeStore) MarkNotificationsRead(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications[ownerID] {
		s.notifications[ownerID][i].Read = true
	}
	return nil
}

func (s *fakeStore) DeleteNotification(_ context.Context, ownerID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.notifications[ownerID]
	for i, n := range entries {
		if n.ID == notificationID {
			s.notifications[ownerID] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return nil
}
