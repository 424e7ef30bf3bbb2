package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = `[
  {"id":"a","title":"Hash Table","category":"Data Structures > Hash Tables","createdAt":"2025-01-01T00:00:00Z"},
  {"id":"b","title":"Two Sum","category":"LeetCode Problems","relatedConcepts":["Hash Table"],"createdAt":"2025-01-01T00:01:00Z"}
]`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "concepts.json")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o644))
	return path
}

func TestGraphCommand(t *testing.T) {
	out, err := run(t, "", "graph", "--file", writeExport(t))
	require.NoError(t, err)

	var g struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Len(t, g.Nodes, 2)
	require.NotEmpty(t, g.Edges)
}

func TestGraphCommand_Stdin(t *testing.T) {
	out, err := run(t, export, "graph", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"nodes"`)
}

func TestClassifyCommand(t *testing.T) {
	out, err := run(t, "", "classify", "--title", "x", "--category", "philosophy")
	require.NoError(t, err)

	var res map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Philosophy", res["category"])
	assert.Equal(t, "normalized", res["source"])
}

func TestClassifyCommand_Export(t *testing.T) {
	out, err := run(t, "", "classify", "--file", writeExport(t))
	require.NoError(t, err)

	var rows []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 2)
}

func TestSimilarCommand(t *testing.T) {
	out, err := run(t, "", "similar", "--file", writeExport(t), "--title", "hash tables")
	require.NoError(t, err)

	var matches []struct {
		ID    string  `json:"id"`
		Score float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
}

func TestCommands_Errors(t *testing.T) {
	_, err := run(t, "", "similar", "--file", writeExport(t))
	assert.Error(t, err)

	_, err = run(t, "", "graph")
	assert.Error(t, err)

	_, err = run(t, "not json", "graph", "--file", "-")
	assert.Error(t, err)

	_, err = run(t, "", "classify")
	assert.Error(t, err)
}
