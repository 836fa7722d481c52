// Package testutil provides shared test utilities for CheckMate.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/checkmate-dev/checkmate/internal/gateway"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

// Compile-time interface satisfaction check.
var _ gateway.Gateway = (*MockGateway)(nil)

// CheckRunRecord captures one check run created through the mock, along
// with every update applied to it.
type CheckRunRecord struct {
	Repo    types.Repository
	Create  types.CheckRunCreate
	Updates []types.CheckRunUpdate
}

// LabelChange records one label mutation on a pull request.
type LabelChange struct {
	Number  int
	Added   []string
	Removed string
}

// MockGateway is an in-memory Gateway implementation for testing.
type MockGateway struct {
	mu        sync.Mutex
	nextID    int64
	checkRuns map[int64]*CheckRunRecord

	Commits      []types.RepoCommit
	Reviews      []types.Review
	RepoLabels   []types.Label
	Approvals    int
	Protection   map[string]int
	Files        map[string][]byte // key: "fullName/path"
	labelChanges []LabelChange

	// Errs lets a test force an error per operation name.
	Errs map[string]error

	FileCalls atomic.Int64
}

// NewMockGateway creates an empty in-memory gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		checkRuns:  make(map[int64]*CheckRunRecord),
		Protection: make(map[string]int),
		Files:      make(map[string][]byte),
		Errs:       make(map[string]error),
	}
}

func (m *MockGateway) CreateCheckRun(_ context.Context, repo types.Repository, create types.CheckRunCreate) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["CreateCheckRun"]; err != nil {
		return 0, err
	}
	m.nextID++
	m.checkRuns[m.nextID] = &CheckRunRecord{Repo: repo, Create: create}
	return m.nextID, nil
}

func (m *MockGateway) UpdateCheckRun(_ context.Context, _ types.Repository, id int64, update types.CheckRunUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["UpdateCheckRun"]; err != nil {
		return err
	}
	if rec, ok := m.checkRuns[id]; ok {
		rec.Updates = append(rec.Updates, update)
	}
	return nil
}

func (m *MockGateway) ListPullRequestCommits(_ context.Context, _ types.Repository, _ int) ([]types.RepoCommit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["ListPullRequestCommits"]; err != nil {
		return nil, err
	}
	return append([]types.RepoCommit(nil), m.Commits...), nil
}

func (m *MockGateway) ListPullRequestReviews(_ context.Context, _ types.Repository, _ int) ([]types.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["ListPullRequestReviews"]; err != nil {
		return nil, err
	}
	return append([]types.Review(nil), m.Reviews...), nil
}

func (m *MockGateway) ApprovePullRequest(_ context.Context, _ types.Repository, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["ApprovePullRequest"]; err != nil {
		return err
	}
	m.Approvals++
	return nil
}

func (m *MockGateway) ListRepoLabels(_ context.Context, _ types.Repository) ([]types.Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["ListRepoLabels"]; err != nil {
		return nil, err
	}
	return append([]types.Label(nil), m.RepoLabels...), nil
}

func (m *MockGateway) AddLabels(_ context.Context, _ types.Repository, number int, labels []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["AddLabels"]; err != nil {
		return err
	}
	m.labelChanges = append(m.labelChanges, LabelChange{Number: number, Added: labels})
	return nil
}

func (m *MockGateway) RemoveLabel(_ context.Context, _ types.Repository, number int, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["RemoveLabel"]; err != nil {
		return err
	}
	m.labelChanges = append(m.labelChanges, LabelChange{Number: number, Removed: label})
	return nil
}

func (m *MockGateway) RequiredApprovals(_ context.Context, _ types.Repository, branch string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["RequiredApprovals"]; err != nil {
		return 0, err
	}
	count, ok := m.Protection[branch]
	if !ok {
		return 0, gateway.ErrNotFound
	}
	return count, nil
}

func (m *MockGateway) FileContent(_ context.Context, repo types.Repository, path string) ([]byte, error) {
	m.FileCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errs["FileContent"]; err != nil {
		return nil, err
	}
	data, ok := m.Files[repo.FullName+"/"+path]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return data, nil
}

// CheckRuns returns a snapshot of every check run created so far, in
// creation order.
func (m *MockGateway) CheckRuns() []CheckRunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CheckRunRecord, 0, len(m.checkRuns))
	for id := int64(1); id <= m.nextID; id++ {
		if rec, ok := m.checkRuns[id]; ok {
			out = append(out, *rec)
		}
	}
	return out
}

// LabelChanges returns label mutations in the order they happened.
func (m *MockGateway) LabelChanges() []LabelChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LabelChange(nil), m.labelChanges...)
}
