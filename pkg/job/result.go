package job

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/repotree"
)

// Analysis is the payload of a successful job.
type Analysis struct {
	Repository            string              `json:"repository"`
	ModelID               string              `json:"model_id"`
	Overview              string              `json:"overview"`
	VulnerabilityAnalysis string              `json:"vulnerability_analysis"`
	FilesAnalyzed         int                 `json:"files_analyzed"`
	Languages             []string            `json:"languages"`
	Nodes                 []repotree.Node     `json:"nodes"`
	Edges                 []repotree.Edge     `json:"edges"`
	Dependencies          []deps.Dependency   `json:"dependencies"`
	Imports               map[string][]string `json:"imports,omitempty"`
}

// Failure is the payload of a failed job.
type Failure struct {
	Error string `json:"error"`
}

// Result holds exactly one of Analysis or Failure. Extra carries fields
// written by other producers so they survive a read-modify-write.
//
// On the wire the payload is flattened:
//
//	{"nodes": [...], "edges": [...], "overview": "...", ...}
//	{"error": "clone failed"}
type Result struct {
	Analysis *Analysis
	Failure  *Failure
	Extra    map[string]json.RawMessage
}

var analysisKeys = []string{
	"repository", "model_id", "overview", "vulnerability_analysis",
	"files_analyzed", "languages", "nodes", "edges", "dependencies", "imports",
}

const failureKey = "error"

// Succeeded wraps an analysis in a result.
func Succeeded(a *Analysis) *Result {
	return &Result{Analysis: a}
}

// Failed returns a failure result with the given message.
func Failed(msg string) *Result {
	return &Result{Failure: &Failure{Error: msg}}
}

// OK reports whether the result is a success.
func (r *Result) OK() bool {
	return r != nil && r.Analysis != nil && r.Failure == nil
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := &Result{Extra: maps.Clone(r.Extra)}
	if r.Failure != nil {
		f := *r.Failure
		c.Failure = &f
	}
	if r.Analysis != nil {
		a := *r.Analysis
		a.Languages = slices.Clone(a.Languages)
		a.Nodes = slices.Clone(a.Nodes)
		a.Edges = slices.Clone(a.Edges)
		a.Dependencies = slices.Clone(a.Dependencies)
		if a.Imports != nil {
			a.Imports = make(map[string][]string, len(r.Analysis.Imports))
			for k, v := range r.Analysis.Imports {
				a.Imports[k] = slices.Clone(v)
			}
		}
		c.Analysis = &a
	}
	return c
}

// MarshalJSON flattens the active variant and the extra fields into one
// object. Variant fields win over extra fields with the same name.
func (r Result) MarshalJSON() ([]byte, error) {
	var body any
	switch {
	case r.Analysis != nil && r.Failure != nil:
		return nil, fmt.Errorf("result has both analysis and failure")
	case r.Analysis != nil:
		body = r.Analysis
	case r.Failure != nil:
		body = r.Failure
	}

	fields := make(map[string]json.RawMessage, len(r.Extra)+len(analysisKeys))
	maps.Copy(fields, r.Extra)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		var own map[string]json.RawMessage
		if err := json.Unmarshal(data, &own); err != nil {
			return nil, err
		}
		maps.Copy(fields, own)
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes a flattened result. An "error" field selects the
// failure variant; otherwise a "nodes" field selects the analysis variant.
// Unknown fields land in Extra.
func (r *Result) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = Result{}

	switch {
	case fields[failureKey] != nil:
		var f Failure
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		r.Failure = &f
		delete(fields, failureKey)
	case fields["nodes"] != nil:
		var a Analysis
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		r.Analysis = &a
		for _, k := range analysisKeys {
			delete(fields, k)
		}
	}

	if len(fields) > 0 {
		r.Extra = fields
	}
	return nil
}
