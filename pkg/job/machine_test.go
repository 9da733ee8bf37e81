package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
)

func newJob(t *testing.T) (*Machine, string) {
	t.Helper()
	s := NewMemoryStore()
	j := New("repo", "")
	require.NoError(t, s.Create(context.Background(), j))
	return NewMachine(s, nil), j.ID
}

func TestMachineHappyPath(t *testing.T) {
	ctx := context.Background()
	m, id := newJob(t)

	require.NoError(t, m.Advance(ctx, id, StatusParsing, ProgressParsing))
	require.NoError(t, m.Advance(ctx, id, StatusBuildingGraph, ProgressGraph))
	require.NoError(t, m.Advance(ctx, id, StatusBuildingGraph, ProgressAnnotated))
	require.NoError(t, m.Advance(ctx, id, StatusExplaining, ProgressExplaining))
	require.NoError(t, m.Complete(ctx, id, &Analysis{Repository: "repo"}))

	j, err := m.Store().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, j.Status)
	assert.Equal(t, ProgressCompleted, j.Progress)
	assert.True(t, j.Result.OK())

	err = m.Fail(ctx, id, errors.New("late"))
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrCodeInvalidTransition))
}

func TestMachineRejectsSkips(t *testing.T) {
	ctx := context.Background()
	m, id := newJob(t)

	err := m.Advance(ctx, id, StatusExplaining, ProgressExplaining)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrCodeInvalidTransition))

	j, err := m.Store().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, j.Status)
}

func TestMachineFail(t *testing.T) {
	ctx := context.Background()
	m, id := newJob(t)

	require.NoError(t, m.Advance(ctx, id, StatusParsing, ProgressParsing))
	cause := pkgerrors.Wrap(pkgerrors.ErrCodeRepositoryUnavailable, errors.New("exit status 128"), "clone repo")
	require.NoError(t, m.Fail(ctx, id, cause))

	j, err := m.Store().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, j.Status)
	assert.Equal(t, ProgressFailed, j.Progress)
	assert.Equal(t, "clone repo: exit status 128", j.Result.Failure.Error)
}

func TestMachineUnknownJob(t *testing.T) {
	m := NewMachine(NewMemoryStore(), nil)
	err := m.Advance(context.Background(), "nope", StatusParsing, ProgressParsing)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrCodeJobNotFound))
}
