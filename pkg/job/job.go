// Package job defines analysis jobs, their lifecycle and their persistence.
//
// A [Job] moves through QUEUED, PARSING, BUILDING_GRAPH, EXPLAINING and
// COMPLETED, or to FAILED from any non-terminal state. [CanTransition]
// encodes the allowed moves and [Machine] enforces them on every write to a
// [Store].
//
// # Stores
//
//   - [MemoryStore]: process-local, for tests and one-shot CLI runs
//   - [FileStore]: JSON files, for CLI runs that outlive the process
//   - [RedisStore]: shared store backed by go-redis
//   - [MongoStore]: shared store backed by the MongoDB driver
//
// # Results
//
// A finished job carries a [Result], which holds either an [Analysis] or a
// [Failure], never both.
package job

import (
	"time"

	"github.com/google/uuid"
)

// SourceGit is the source type of jobs created from a repository URL.
const SourceGit = "git"

// DefaultModelID is used when a job is created without a model.
const DefaultModelID = "llama-3.2-1b"

// Job is one repository analysis request.
type Job struct {
	ID         string    `json:"id" bson:"_id"`
	Status     Status    `json:"status" bson:"status"`
	Progress   int       `json:"progress" bson:"progress"`
	SourceType string    `json:"source_type" bson:"source_type"`
	RepoURL    string    `json:"repo_url" bson:"repo_url"`
	ModelID    string    `json:"model_id" bson:"model_id"`
	Result     *Result   `json:"result,omitempty" bson:"-"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// New returns a queued job with a fresh id.
func New(repoURL, modelID string) *Job {
	if modelID == "" {
		modelID = DefaultModelID
	}
	now := time.Now().UTC()
	return &Job{
		ID:         uuid.NewString(),
		Status:     StatusQueued,
		Progress:   ProgressQueued,
		SourceType: SourceGit,
		RepoURL:    repoURL,
		ModelID:    modelID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Clone returns a copy that shares no mutable state with j.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	c.Result = j.Result.Clone()
	return &c
}

// Update is the set of fields written by a single state change.
type Update struct {
	Status    Status
	Progress  int
	Result    *Result
	UpdatedAt time.Time
}

// Apply writes u onto j. A nil Result leaves the existing result in place.
func (u Update) Apply(j *Job) {
	j.Status = u.Status
	j.Progress = u.Progress
	if u.Result != nil {
		j.Result = u.Result.Clone()
	}
	j.UpdatedAt = u.UpdatedAt
}
