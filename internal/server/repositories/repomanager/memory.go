package repomanager

import (
	"context"

	"github.com/dmitrijs2005/nihongo/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/memory"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/studylogs"
)

// MemoryRepositoryManager serves both repositories from one memory.Store.
// Data lives for the life of the process.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

func (m *MemoryRepositoryManager) Accounts() accounts.Repository   { return m.store.Accounts() }
func (m *MemoryRepositoryManager) StudyLogs() studylogs.Repository { return m.store.StudyLogs() }

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *MemoryRepositoryManager) Close() error                        { return nil }
