// Package memory is the in-process store used when no database DSN is
// configured. One mutex guards all state, so a username check and the insert
// that follows it are a single atomic step.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/server/models"
)

type Store struct {
	mu sync.Mutex

	accounts   map[string]models.Account // by id
	byUsername map[string]string         // username -> id
	logs       map[string][]models.StudyLog
	seq        int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts:   make(map[string]models.Account),
		byUsername: make(map[string]string),
		logs:       make(map[string][]models.StudyLog),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Accounts returns the account view of the store.
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s: s} }

// StudyLogs returns the study log view of the store.
func (s *Store) StudyLogs() *StudyLogRepository { return &StudyLogRepository{s: s} }

type AccountRepository struct{ s *Store }

func (r *AccountRepository) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[a.Username]; taken {
		return nil, common.ErrorConflict
	}

	stored := *a
	stored.ID = uuid.NewString()
	stored.CreatedAt = s.now()
	s.accounts[stored.ID] = stored
	s.byUsername[stored.Username] = stored.ID

	out := stored
	return &out, nil
}

func (r *AccountRepository) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := s.accounts[id]
	return &a, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

type StudyLogRepository struct{ s *Store }

func (r *StudyLogRepository) Append(_ context.Context, l *models.StudyLog) (*models.StudyLog, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[l.UserID]; !ok {
		return nil, common.ErrorNotFound
	}

	s.seq++
	stored := *l
	stored.ID = formatSeq(s.seq)
	stored.CompletedAt = s.now()
	s.logs[l.UserID] = append(s.logs[l.UserID], stored)

	out := stored
	return &out, nil
}

// ListByUser returns logs newest first; equal timestamps fall back to
// insertion order.
func (r *StudyLogRepository) ListByUser(_ context.Context, userID string, limit int) ([]models.StudyLog, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.logs[userID]
	out := make([]models.StudyLog, len(src))
	for i := range src {
		out[i] = src[len(src)-1-i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
