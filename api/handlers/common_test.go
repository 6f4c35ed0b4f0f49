// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/lexfeat/config"
	"github.com/meghashyamc/lexfeat/db/kvdb"
	"github.com/meghashyamc/lexfeat/db/searchdb"
	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/services/features"
	"github.com/meghashyamc/lexfeat/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

var testFiles = map[string]string{
	"main.c":              "/*\n * Entry point\n */\nint main(void) {\n\treturn parse_args(0x2); // TODO\n}\n",
	"parser/parse.c":      "int parse_args(int argc) {\n\treturn argc > 1; /* more */\n}\n",
	"parser/parse.h":      "int parse_args(int argc);\n",
	"net/socket.c":        "int open_socket(void) { return socket_fd; }\n",
	"docs/README.md":      "parse_args docs",
	"net/nested/buffer.c": "char buffer[256]; // Buffer\n",
}

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	queryParams      map[string]string
	expectedStatus   int
	expectedResponse map[string]any
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions, tempDir string) (*gin.Engine, func()) {

	t.Setenv("ENV", "test")

	cfg, err := config.Load()
	assert.NoError(err, "could not load config")

	for relPath, content := range testFiles {
		fullPath := filepath.Join(tempDir, relPath)
		err := os.MkdirAll(filepath.Dir(fullPath), 0755)
		assert.NoError(err, "could not create test sub-directory")
		err = os.WriteFile(fullPath, []byte(content), 0644)
		assert.NoError(err, "could not write test file")
	}

	testLogger := newTestLogger()

	searchDB, err := searchdb.New(testLogger, cfg)
	assert.NoError(err, "could not create search database")

	kvDB, err := kvdb.New(testLogger, cfg)
	assert.NoError(err, "could not create kv database")
	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")
	options, err := features.OptionsFromConfig(cfg)
	assert.NoError(err, "could not build feature options")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctx, cancel := context.WithCancel(context.Background())

	SetupLexer(router, testLogger, validator)
	SetupFeatures(ctx, router, testLogger, searchDB, kvDB, validator, options)
	SetupSearch(router, testLogger, searchDB, validator)

	cleanup := func() {
		cancel()
		var err error
		err = searchDB.Close()
		assert.NoError(err, "could not close search database")
		err = kvDB.Close()
		assert.NoError(err, "could not close kv database")
		err = os.RemoveAll(tempDir)
		assert.NoError(err, "could not remove temporary directory")
		err = os.RemoveAll(cfg.GetStoragePath())
		assert.NoError(err, "could not remove storage directory")
	}

	return router, cleanup
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?"
		for key, value := range queryParams {
			if endpoint[len(endpoint)-1] != '?' {
				endpoint = endpoint + "&"
			}
			endpoint = endpoint + key + "=" + value
		}
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

// buildFeaturesAndWait extracts features for root and blocks until extraction completes.
func buildFeaturesAndWait(router *gin.Engine, assert *require.Assertions, root string) string {
	w := makeTestHTTPRequest(router, assert, http.MethodPost, "/features", defaultTestRequestHeaders, map[string]any{"path": root}, nil)
	assert.Equal(http.StatusAccepted, w.Code, "feature extraction should be accepted, got %s", w.Body.String())

	type featuresResponse struct {
		Data   FeaturesResponse `json:"data"`
		Errors []string         `json:"errors"`
	}
	actualResponse := featuresResponse{}
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &actualResponse), "could not unmarshal gotten response")

	requestID := actualResponse.Data.ID
	assert.Eventually(func() bool {
		w := makeTestHTTPRequest(router, assert, http.MethodGet, "/features/"+requestID, nil, nil, nil)
		return w.Code == http.StatusOK
	}, 10*time.Second, 50*time.Millisecond, "timed out waiting for feature extraction: %s", requestID)

	return requestID
}

func decodeData(assert *require.Assertions, w *httptest.ResponseRecorder) map[string]any {
	var responseMap map[string]any
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &responseMap))
	data, ok := responseMap["data"].(map[string]any)
	assert.True(ok, "expected data object in response %s", w.Body.String())
	return data
}

func mustGetAbsolutePath(relativePath string) string {
	absPath, err := filepath.Abs(relativePath)
	if err != nil {
		panic(err)
	}
	return absPath
}
