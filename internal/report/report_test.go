package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/pthm/hiercte"
)

func sampleResults() []*hiercte.Result {
	return []*hiercte.Result{
		{Success: true, SQL: "WITH RECURSIVE ...", Notes: []string{"path note"}},
		{Success: true, SQL: "WITH RECURSIVE ...", Warnings: []string{"review join"}},
		{Success: false, SQL: "SELECT 1", Original: "SELECT 1", Err: fmt.Errorf("%w: plain", hiercte.ErrNotHierarchical)},
		{Success: false, SQL: "bad", Original: "bad", Err: fmt.Errorf("%w: no FROM", hiercte.ErrStructureUnrecognized)},
	}
}

func TestAddConversions(t *testing.T) {
	r := &Report{}
	r.AddConversions("q.sql", sampleResults())

	require.Len(t, r.Entries, 4)
	assert.Equal(t, StatusPass, r.Entries[0].Status)
	assert.Equal(t, StatusWarn, r.Entries[1].Status)
	assert.Equal(t, StatusSkip, r.Entries[2].Status)
	assert.Equal(t, StatusFail, r.Entries[3].Status)
	assert.Contains(t, r.Entries[3].Details, "no FROM")

	for i, e := range r.Entries {
		assert.Equal(t, "q.sql", e.Source)
		assert.Equal(t, i+1, e.Statement)
	}

	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 1, r.Warnings)
	assert.Equal(t, 1, r.Errors)
	assert.Equal(t, 1, r.Skipped)
	assert.True(t, r.HasErrors())
	assert.True(t, r.HasWarnings())
}

func TestPrint(t *testing.T) {
	r := &Report{}
	r.AddConversions("q.sql", sampleResults())

	var quiet bytes.Buffer
	r.Print(&quiet, false)
	out := quiet.String()
	assert.Contains(t, out, "q.sql\n")
	assert.Contains(t, out, "✓ statement 1: Converted")
	assert.Contains(t, out, "⚠ statement 2: Converted with 1 warning(s)")
	assert.Contains(t, out, "warning: review join")
	assert.Contains(t, out, "✗ statement 4")
	assert.NotContains(t, out, "statement 3")
	assert.NotContains(t, out, "note: path note")
	assert.Contains(t, out, "Summary: 1 passed, 1 warnings, 1 errors, 1 skipped")

	var verbose bytes.Buffer
	r.Print(&verbose, true)
	out = verbose.String()
	assert.Contains(t, out, "- statement 3")
	assert.Contains(t, out, "note: path note")
	assert.Contains(t, out, "no FROM")
}

func TestExport(t *testing.T) {
	r := &Report{}
	r.AddConversions("q.sql", sampleResults()[:2])

	t.Run("yaml", func(t *testing.T) {
		data, err := r.Export("yaml")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.EqualValues(t, 1, got["passed"])
		entries, ok := got["entries"].([]any)
		require.True(t, ok)
		require.Len(t, entries, 2)
		first, ok := entries[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "pass", first["status"])
	})

	t.Run("json", func(t *testing.T) {
		data, err := r.Export("JSON")
		require.NoError(t, err)

		var got struct {
			Entries []struct {
				Status   string   `json:"status"`
				Warnings []string `json:"warnings"`
			} `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(data, &got))
		require.Len(t, got.Entries, 2)
		assert.Equal(t, "warn", got.Entries[1].Status)
		assert.Equal(t, []string{"review join"}, got.Entries[1].Warnings)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := r.Export("xml")
		assert.Error(t, err)
	})
}

func TestWriteFile(t *testing.T) {
	r := &Report{}
	r.AddConversions("q.sql", sampleResults()[:1])

	path := filepath.Join(t.TempDir(), "out", "report.yaml")
	require.NoError(t, r.WriteFile(path, "yaml"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "source: q.sql")
}

func TestVerifier_Lint(t *testing.T) {
	conv := hiercte.NewConverter()
	res, err := conv.Convert("SELECT id, mgr, LEVEL FROM employees START WITH mgr IS NULL CONNECT BY PRIOR id = mgr")
	require.NoError(t, err)

	statements := []string{
		res.SQL,
		"SELECT 1",
		"SELEC broken",
		`WITH RECURSIVE t AS (SELECT 1 AS a UNION ALL SELECT a + 1, 2 FROM t) SELECT * FROM t`,
	}

	r := &Report{}
	require.NoError(t, NewVerifier().Run(context.Background(), r, "out.sql", statements))

	require.Len(t, r.Entries, 4)
	assert.Equal(t, StatusPass, r.Entries[0].Status)
	assert.Equal(t, "OK (3 aligned columns)", r.Entries[0].Message)
	assert.Equal(t, StatusSkip, r.Entries[1].Status)
	assert.Equal(t, StatusFail, r.Entries[2].Status)
	assert.Equal(t, StatusFail, r.Entries[3].Status)
}

func TestVerifier_NoChecks(t *testing.T) {
	r := &Report{}
	require.NoError(t, NewVerifier(WithLint(false)).Run(context.Background(), r, "out.sql", []string{"anything"}))
	require.Len(t, r.Entries, 1)
	assert.Equal(t, StatusSkip, r.Entries[0].Status)
	assert.Equal(t, "No checks enabled", r.Entries[0].Message)
}

func TestVerifier_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Report{}
	err := NewVerifier().Run(ctx, r, "out.sql", []string{"SELECT 1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, r.Entries)
}
