package job

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
)

// FileStore stores each job as a JSON file in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based job store.
// If baseDir is empty, defaults to ~/.config/repoinsight/jobs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "repoinsight", "jobs")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) jobPath(id string) (string, error) {
	if err := pkgerrors.ValidatePath(id); err != nil || filepath.Base(id) != id {
		return "", pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "invalid job id %q", id)
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Create(ctx context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.jobPath(j.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "job %s already exists", j.ID)
	}
	return s.write(path, j)
}

func (s *FileStore) Get(ctx context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.jobPath(id)
	if err != nil {
		return nil, err
	}
	return s.read(path, id)
}

func (s *FileStore) Update(ctx context.Context, id string, u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.jobPath(id)
	if err != nil {
		return err
	}
	j, err := s.read(path, id)
	if err != nil {
		return err
	}
	u.Apply(j)
	return s.write(path, j)
}

// List returns every stored job, newest first.
func (s *FileStore) List(ctx context.Context) ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, storageErr(err, "list", "*")
	}
	var jobs []*Job
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := entry.Name()[:len(entry.Name())-len(".json")]
		j, err := s.read(filepath.Join(s.baseDir, entry.Name()), id)
		if err != nil {
			continue
		}
		jobs = append(jobs, j)
	}
	sort.SliceStable(jobs, func(a, b int) bool {
		return jobs[a].CreatedAt.After(jobs[b].CreatedAt)
	})
	return jobs, nil
}

// Path returns the directory holding job files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func (s *FileStore) read(path, id string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, storageErr(err, "read", id)
	}
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, storageErr(err, "decode", id)
	}
	return &j, nil
}

func (s *FileStore) write(path string, j *Job) error {
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return storageErr(err, "encode", j.ID)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return storageErr(err, "write", j.ID)
	}
	if err := os.Rename(tmp, path); err != nil {
		return storageErr(err, "write", j.ID)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
