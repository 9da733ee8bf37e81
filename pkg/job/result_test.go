package job

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/repotree"
)

func TestResultJSONFailure(t *testing.T) {
	r := Failed("clone failed")
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"clone failed"}`, string(data))

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Failure)
	assert.Nil(t, back.Analysis)
	assert.Equal(t, "clone failed", back.Failure.Error)
	assert.False(t, back.OK())
}

func TestResultJSONAnalysis(t *testing.T) {
	r := Succeeded(&Analysis{
		Repository:    "demo",
		ModelID:       "m",
		Overview:      "ov",
		FilesAnalyzed: 1,
		Languages:     []string{"Go"},
		Nodes:         []repotree.Node{{ID: "/", Label: "demo", Type: repotree.TypeRepository}},
		Edges:         []repotree.Edge{},
		Dependencies:  []deps.Dependency{{Name: "x", Source: "go.mod"}},
	})
	r.Extra = map[string]json.RawMessage{"model_checked": json.RawMessage(`true`)}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "demo", flat["repository"])
	assert.Equal(t, true, flat["model_checked"])
	assert.NotContains(t, flat, "error")
	assert.NotContains(t, flat, "imports")

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, back.OK())
	assert.Equal(t, r.Analysis, back.Analysis)
	assert.JSONEq(t, `true`, string(back.Extra["model_checked"]))
	assert.Len(t, back.Extra, 1)
}

func TestResultBothVariantsRejected(t *testing.T) {
	r := Result{Analysis: &Analysis{}, Failure: &Failure{Error: "x"}}
	_, err := json.Marshal(r)
	assert.Error(t, err)
}

func TestResultCloneIsDeep(t *testing.T) {
	r := Succeeded(&Analysis{
		Languages: []string{"Go"},
		Imports:   map[string][]string{"a.go": {"fmt"}},
	})
	c := r.Clone()
	c.Analysis.Languages[0] = "Rust"
	c.Analysis.Imports["a.go"][0] = "os"

	assert.Equal(t, "Go", r.Analysis.Languages[0])
	assert.Equal(t, "fmt", r.Analysis.Imports["a.go"][0])
}
