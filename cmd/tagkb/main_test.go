package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/tagkb/internal/errors"
)

type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return &cli{t: t, db: filepath.Join(home, "data", "tagkb.db")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", c.db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

var addedID = regexp.MustCompile(`Added entry: (\w+)`)

func (c *cli) add(content string, tags string) string {
	c.t.Helper()
	out := c.mustRun("add", content, "--tags", tags)
	m := addedID.FindStringSubmatch(out)
	require.Len(c.t, m, 2, out)
	return m[1]
}

func TestSeedsDefaultCategories(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("category", "list")
	assert.Contains(t, out, "language")
	assert.Contains(t, out, "complexity")
}

func TestTagAndQuery(t *testing.T) {
	c := newCLI(t)

	goID := c.add("learn go generics", "go, generics")
	jsID := c.add("closures in javascript", "javascript")

	c.mustRun("parent", "go", "programming")
	c.mustRun("parent", "javascript", "programming")

	out := c.mustRun("query", "programming")
	assert.Contains(t, out, goID)
	assert.Contains(t, out, jsID)

	out = c.mustRun("query", "programming", "--no-children")
	assert.Contains(t, out, "No matching entries found.")

	out = c.mustRun("query", "go", "javascript", "--op", "OR", "--limit", "1")
	assert.Contains(t, out, "(1 of 2 shown)")

	out = c.mustRun("query", "go", "--op", "NOT")
	assert.Contains(t, out, jsID)
	assert.NotContains(t, out, goID)

	c.mustRun("synonym", "golang", "go")
	out = c.mustRun("query", "golang")
	assert.Contains(t, out, goID)

	out = c.mustRun("show", goID, "--inherited")
	assert.Contains(t, out, "programming (inherited)")

	out = c.mustRun("tags")
	assert.Contains(t, out, "programming (0)\n  go (1)\n  javascript (1)\n")
}

func TestAddWithParentAmongTags(t *testing.T) {
	c := newCLI(t)

	id := c.add("ownership rules", "go,lang")
	c.mustRun("tag", id, "rust", "--parent", "lang")

	out := c.mustRun("query", "lang", "--no-children")
	assert.Contains(t, out, id)
	out = c.mustRun("tags")
	assert.Contains(t, out, "lang (1)\n  rust (1)\n")

	_, err := c.run("add", "note", "-t", "go,lang", "-p", "lang")
	require.NoError(t, err)

	_, err = c.run("synonym", "javascript", "js, ecmascript")
	assert.True(t, errors.IsInvalidInput(err))
}

func TestCycleIsRejected(t *testing.T) {
	c := newCLI(t)

	c.mustRun("parent", "react", "javascript")
	c.mustRun("parent", "javascript", "programming")

	out, err := c.run("parent", "programming", "react")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCycleDetected))
	assert.Empty(t, out)
}

func TestUntagAndDelete(t *testing.T) {
	c := newCLI(t)

	id := c.add("note", "a,b")

	out := c.mustRun("untag", id, "a")
	assert.Contains(t, out, "1 tags left")

	_, err := c.run("untag", id, "a")
	assert.True(t, errors.IsNotFound(err))

	c.mustRun("delete", id)
	out = c.mustRun("stats")
	assert.Contains(t, out, "Items:           0")
}

func TestTagSets(t *testing.T) {
	c := newCLI(t)

	id := c.add("api server", "go,http")
	c.add("landing page", "html")

	c.mustRun("tagset", "save", "backend", "go", "http")
	out := c.mustRun("tagset", "show", "backend")
	assert.Contains(t, out, "backend: go, http")

	out = c.mustRun("tagset", "query", "backend")
	assert.Contains(t, out, id)
}

func TestImportExport(t *testing.T) {
	c := newCLI(t)

	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
hierarchy:
  programming: [go, javascript]
synonyms:
  go: [golang]
`), 0644))

	out := c.mustRun("import", path)
	assert.Contains(t, out, "Edges:      2")
	assert.Contains(t, out, "Synonyms:   1")

	out = c.mustRun("export")
	assert.Contains(t, out, "programming:")
	assert.Contains(t, out, "golang")
}

func TestQueryRejectsBadOperator(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("query", "go", "--op", "XOR")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	out := truncate("ééééééééééééé", 10)
	assert.Equal(t, "ééééééé...", out)
	assert.True(t, utf8.ValidString(out))
}
