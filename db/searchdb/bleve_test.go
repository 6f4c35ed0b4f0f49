package searchdb

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meghashyamc/lexfeat/logger"
	"github.com/stretchr/testify/require"
)

var parseQuotedQueryTestCases = []struct {
	name              string
	input             string
	expectedQuoted    []string
	expectedRemaining string
}{
	{
		name:              "Simple quoted phrase",
		input:             `"hello world"`,
		expectedQuoted:    []string{"hello world"},
		expectedRemaining: "",
	},
	{
		name:              "Quoted phrase with remaining terms",
		input:             `"hello world" test golang`,
		expectedQuoted:    []string{"hello world"},
		expectedRemaining: "test golang",
	},
	{
		name:              "Multiple quoted phrases",
		input:             `"hello world" test "another phrase"`,
		expectedQuoted:    []string{"hello world", "another phrase"},
		expectedRemaining: "test",
	},
	{
		name:              "No quotes",
		input:             `hello world test`,
		expectedQuoted:    nil,
		expectedRemaining: "hello world test",
	},
	{
		name:              "Empty quoted phrase",
		input:             `"" test`,
		expectedQuoted:    nil,
		expectedRemaining: "test",
	},
	{
		name:              "Quoted phrase with extra spaces",
		input:             `"  hello world  " test`,
		expectedQuoted:    []string{"hello world"},
		expectedRemaining: "test",
	},
	{
		name:              "Multiple quoted phrases with spaces",
		input:             `  "first phrase"   test   "second phrase"  `,
		expectedQuoted:    []string{"first phrase", "second phrase"},
		expectedRemaining: "test",
	},
}

func TestParseQuotedQuery(t *testing.T) {
	for _, testCase := range parseQuotedQueryTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			quoted, remaining := parseQuotedQuery(testCase.input)

			assert.Equal(testCase.expectedQuoted, quoted, "quoted phrases should match")
			assert.Equal(testCase.expectedRemaining, remaining, "remaining (not quoted) terms should match")
		})
	}
}

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestDB(assert *require.Assertions, t *testing.T) *BleveDB {
	db, err := newAt(newTestLogger(), filepath.Join(t.TempDir(), "tokens.bleve"))
	assert.NoError(err, "could not create search database")
	t.Cleanup(func() { assert.NoError(db.Close()) })
	return db
}

func resultIDs(response *Response) []string {
	ids := make([]string, 0, len(response.Results))
	for _, result := range response.Results {
		ids = append(ids, result.ID)
	}
	return ids
}

func TestSearchIsCaseSensitiveOnContent(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(assert, t)

	documents := []*Document{
		{ID: "/src/alloc.c", Path: "/src/alloc.c", Name: "alloc.c", Content: "void *p = malloc(size);\nfree(p);", ModTime: time.Now().UTC(), TokenCount: 5},
		{ID: "/src/macros.h", Path: "/src/macros.h", Name: "macros.h", Content: "#define MALLOC_MAX 10", ModTime: time.Now().UTC(), TokenCount: 2},
	}
	assert.NoError(db.BuildIndex(documents))

	count, err := db.GetDocCount()
	assert.NoError(err)
	assert.Equal(uint64(2), count)

	response, err := db.Search("malloc", 10, 0)
	assert.NoError(err)
	assert.Equal([]string{"/src/alloc.c"}, resultIDs(response))
	assert.Equal("/src/alloc.c", response.Results[0].Path)
	assert.Equal(5, response.Results[0].TokenCount)

	response, err = db.Search("MALLOC_MAX", 10, 0)
	assert.NoError(err)
	assert.Equal([]string{"/src/macros.h"}, resultIDs(response))

	response, err = db.Search(`"malloc size"`, 10, 0)
	assert.NoError(err)
	assert.Equal([]string{"/src/alloc.c"}, resultIDs(response))

	response, err = db.Search("", 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(2), response.Total)
}

func TestDeleteDocuments(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(assert, t)

	assert.NoError(db.BuildIndex([]*Document{
		{ID: "/src/a.c", Path: "/src/a.c", Name: "a.c", Content: "alpha"},
		{ID: "/src/b.c", Path: "/src/b.c", Name: "b.c", Content: "beta"},
	}))
	assert.NoError(db.DeleteDocuments([]string{"/src/a.c"}))

	count, err := db.GetDocCount()
	assert.NoError(err)
	assert.Equal(uint64(1), count)

	response, err := db.Search("alpha", 10, 0)
	assert.NoError(err)
	assert.Empty(response.Results)
}
