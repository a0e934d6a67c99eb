// Package memory provides in-process stores backed by maps. Used for local
// development without Supabase credentials and by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dmatos/fintrack-api-go/internal/domain"
)

// Store implements port.UserStore and port.TransactionStore with
// mutex-guarded maps. Data does not survive a restart.
type Store struct {
	mu           sync.RWMutex
	users        map[string]*domain.User
	usersByEmail map[string]*domain.User
	transactions map[string]*domain.Transaction
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]*domain.User),
		usersByEmail: make(map[string]*domain.User),
		transactions: make(map[string]*domain.Transaction),
	}
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	s.users[u.ID] = &u
	s.usersByEmail[u.Email] = &u
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *tx
	s.transactions[t.ID] = &t
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	copied := *t
	return &copied, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[tx.ID]
	if !ok || existing.OwnerID != tx.OwnerID {
		return &domain.ErrNotFound{Resource: "transaction", ID: tx.ID}
	}
	t := *tx
	s.transactions[t.ID] = &t
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Transaction, 0)
	for _, t := range s.transactions {
		if t.OwnerID == ownerID {
			list = append(list, *t)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}
