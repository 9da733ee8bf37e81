package job

import (
	"context"
	"sync"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
)

// Store persists jobs. Updates are last-write-wins.
type Store interface {
	// Create stores a new job. It fails if the id already exists.
	Create(ctx context.Context, j *Job) error

	// Get returns the job with the given id, or an error with code
	// ErrCodeJobNotFound.
	Get(ctx context.Context, id string) (*Job, error)

	// Update writes status, progress and result in one operation.
	Update(ctx context.Context, id string, u Update) error
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.ErrCodeJobNotFound, "job %s not found", id)
}

func storageErr(err error, op, id string) error {
	return pkgerrors.Wrap(pkgerrors.ErrCodeStorage, err, "%s job %s", op, id)
}

// MemoryStore keeps jobs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

func (s *MemoryStore) Create(ctx context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[j.ID]; ok {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "job %s already exists", j.ID)
	}
	s.jobs[j.ID] = j.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, notFound(id)
	}
	return j.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return notFound(id)
	}
	u.Apply(j)
	return nil
}

var _ Store = (*MemoryStore)(nil)
