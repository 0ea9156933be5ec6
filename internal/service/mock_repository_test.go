package service

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/Kosench/go-shortlink/internal/errors"
	"github.com/Kosench/go-shortlink/internal/model"
)

var errDatabase = errors.New("database error")

type mockLinkRepository struct {
	mu          sync.Mutex
	links       map[string]*model.Link
	shouldFail  bool
	existsCalls int
	// reportFree makes ExistsByShortCode lie, to simulate a code claimed
	// between the check and the insert.
	reportFree bool
	// alwaysTaken makes every code look stored.
	alwaysTaken bool
}

func newMockLinkRepository() *mockLinkRepository {
	return &mockLinkRepository{
		links: make(map[string]*model.Link),
	}
}

func (m *mockLinkRepository) Create(ctx context.Context, link *model.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return errDatabase
	}

	if _, exists := m.links[link.Short]; exists {
		return apperrors.ErrDuplicateKey
	}

	link.ID = int64(len(m.links) + 1)
	stored := *link
	m.links[link.Short] = &stored
	return nil
}

func (m *mockLinkRepository) GetByShortCode(ctx context.Context, shortCode string) (*model.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return nil, errDatabase
	}

	link, exists := m.links[shortCode]
	if !exists {
		return nil, apperrors.ErrURLNotFound
	}

	copied := *link
	return &copied, nil
}

func (m *mockLinkRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.existsCalls++
	if m.shouldFail {
		return false, errDatabase
	}
	if m.alwaysTaken {
		return true, nil
	}
	if m.reportFree {
		return false, nil
	}

	_, exists := m.links[shortCode]
	return exists, nil
}

func (m *mockLinkRepository) IncrementVisits(ctx context.Context, shortCode string) (*model.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return nil, errDatabase
	}

	link, exists := m.links[shortCode]
	if !exists {
		return nil, apperrors.ErrURLNotFound
	}

	link.Visits++
	copied := *link
	return &copied, nil
}
