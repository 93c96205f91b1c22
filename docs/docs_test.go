package docs

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/movable/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag/v2"
)

type operation struct {
	Summary   string                     `json:"summary"`
	Responses map[string]json.RawMessage `json:"responses"`
}

func readDoc(t *testing.T) (string, map[string]map[string]operation) {
	t.Helper()
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		BasePath string                          `json:"basePath"`
		Paths    map[string]map[string]operation `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	return parsed.BasePath, parsed.Paths
}

func TestSwaggerDocRegistered(t *testing.T) {
	basePath, paths := readDoc(t)

	assert.Equal(t, "/api/v1", basePath)
	assert.Contains(t, paths, "/music/{id}/songs")
	assert.Contains(t, paths, "/songs/{id}/down")
	assert.Equal(t, "Delete all music and songs", paths["/music/new"]["post"].Summary)
	assert.Contains(t, paths["/music"]["post"].Responses, "201")
	assert.Contains(t, paths["/music/{id}"]["get"].Responses, "404")
}

func TestSwaggerDocCoversEveryRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	handler.NewMusicHandler(nil).RegisterRoutes(api)
	handler.NewSongHandler(nil).RegisterRoutes(api)

	_, paths := readDoc(t)
	param := regexp.MustCompile(`:(\w+)`)
	routes := engine.Routes()
	require.NotEmpty(t, routes)

	documented := 0
	for _, route := range routes {
		path := param.ReplaceAllString(strings.TrimPrefix(route.Path, "/api/v1"), "{$1}")
		method := strings.ToLower(route.Method)
		op, ok := paths[path][method]
		if assert.True(t, ok, "%s %s is not documented", route.Method, path) {
			assert.NotEmpty(t, op.Summary)
			documented++
		}
	}

	total := 0
	for _, ops := range paths {
		total += len(ops)
	}
	assert.Equal(t, total, documented, "documented operations without a route")
}
