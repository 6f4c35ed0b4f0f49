package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

var lexerHandlerTestCases = []struct {
	testCase
	endpoint string
}{
	{
		endpoint: "/tokenize",
		testCase: testCase{
			name:           "TokenizeNoRequestBody",
			requestHeaders: defaultTestRequestHeaders,
			expectedStatus: http.StatusUnprocessableEntity,
		},
	},
	{
		endpoint: "/tokenize",
		testCase: testCase{
			name:           "TokenizeStrictByDefault",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"text": "0x1A foo 5 a bar"},
			expectedStatus: http.StatusOK,
			expectedResponse: map[string]any{
				"data": map[string]any{
					"frequencies": map[string]any{"foo": float64(1), "bar": float64(1)},
					"total":       float64(2),
				},
				"errors": nil,
			},
		},
	},
	{
		endpoint: "/tokenize",
		testCase: testCase{
			name:           "TokenizeUnfiltered",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"text": "a a b", "policy": "unfiltered"},
			expectedStatus: http.StatusOK,
			expectedResponse: map[string]any{
				"data": map[string]any{
					"frequencies": map[string]any{"a": float64(2), "b": float64(1)},
					"total":       float64(3),
				},
				"errors": nil,
			},
		},
	},
	{
		endpoint: "/tokenize",
		testCase: testCase{
			name:           "TokenizeStripComments",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"text": "int count; // counter\n/* license */ int hidden;", "strip_comments": true},
			expectedStatus: http.StatusOK,
			expectedResponse: map[string]any{
				"data": map[string]any{
					"frequencies": map[string]any{"int": float64(1), "count": float64(1)},
					"total":       float64(2),
				},
				"errors": nil,
			},
		},
	},
	{
		endpoint: "/tokenize",
		testCase: testCase{
			name:           "TokenizeEmptyText",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"text": ""},
			expectedStatus: http.StatusOK,
			expectedResponse: map[string]any{
				"data": map[string]any{
					"frequencies": map[string]any{},
					"total":       float64(0),
				},
				"errors": nil,
			},
		},
	},
	{
		endpoint: "/tokenize",
		testCase: testCase{
			name:           "TokenizeInvalidPolicy",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"text": "a", "policy": "lenient"},
			expectedStatus: http.StatusNotAcceptable,
		},
	},
	{
		endpoint: "/strip",
		testCase: testCase{
			name:           "StripUnterminatedBlock",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"text": "a\n/* start\nb\nc"},
			expectedStatus: http.StatusOK,
			expectedResponse: map[string]any{
				"data": map[string]any{
					"text":  "a\n\n\n",
					"lines": float64(4),
				},
				"errors": nil,
			},
		},
	},
	{
		endpoint: "/urls",
		testCase: testCase{
			name:           "ExtractURLs",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"text": "see https://example.com/cve and FTP://mirror.org/pub"},
			expectedStatus: http.StatusOK,
			expectedResponse: map[string]any{
				"data": map[string]any{
					"urls": []any{"https://example.com/cve", "FTP://mirror.org/pub"},
				},
				"errors": nil,
			},
		},
	},
	{
		endpoint: "/urls",
		testCase: testCase{
			name:           "ExtractNoURLs",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"text": "nothing here"},
			expectedStatus: http.StatusOK,
			expectedResponse: map[string]any{
				"data": map[string]any{
					"urls": []any{},
				},
				"errors": nil,
			},
		},
	},
	{
		endpoint: "/keywords",
		testCase: testCase{
			name:           "KeywordFound",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"message": "fix heap overflow", "keywords": []string{"overflow", "CVE"}},
			expectedStatus: http.StatusOK,
			expectedResponse: map[string]any{
				"data":   map[string]any{"found": true},
				"errors": nil,
			},
		},
	},
	{
		endpoint: "/keywords",
		testCase: testCase{
			name:           "KeywordNotFound",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"message": "update docs", "keywords": []string{"overflow"}},
			expectedStatus: http.StatusOK,
			expectedResponse: map[string]any{
				"data":   map[string]any{"found": false},
				"errors": nil,
			},
		},
	},
	{
		endpoint: "/keywords",
		testCase: testCase{
			name:           "KeywordsMissing",
			requestHeaders: defaultTestRequestHeaders,
			requestBody:    map[string]any{"message": "update docs"},
			expectedStatus: http.StatusNotAcceptable,
		},
	},
}

func TestLexerHandlers(t *testing.T) {
	assert := require.New(t)
	router, cleanup := setupTestServer(t, assert, "./.lexfeat_lexer_test")
	defer cleanup()

	for _, testCase := range lexerHandlerTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(router, assert, http.MethodPost, testCase.endpoint, testCase.requestHeaders, testCase.requestBody, testCase.queryParams)
			responseBytes := w.Body.Bytes()
			assert.Equal(testCase.expectedStatus, w.Code, fmt.Sprintf("response gotten was %s", string(responseBytes)))

			if testCase.expectedResponse != nil {
				var responseMap map[string]any
				assert.NoError(json.Unmarshal(responseBytes, &responseMap))
				assert.Equal(testCase.expectedResponse, responseMap)
			}
		})
	}
}
