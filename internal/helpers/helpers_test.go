package helpers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsStr(t *testing.T) {
	assert.True(t, ContainsStr([]string{"--use-cache", "--purge-cache"}, "--purge-cache"))
	assert.False(t, ContainsStr([]string{"--use-cache"}, "--purge-cache"))
	assert.False(t, ContainsStr(nil, "--use-cache"))
}

func TestValueForPrefix(t *testing.T) {
	value, ok := ValueForPrefix([]string{"bin", "--input=request.yaml"}, "--input=")
	assert.True(t, ok)
	assert.Equal(t, "request.yaml", value)

	_, ok = ValueForPrefix([]string{"bin"}, "--input=")
	assert.False(t, ok)
}

func TestExtractKeyFromMap(t *testing.T) {
	m := map[string]json.RawMessage{"a": json.RawMessage(`{"level": 3}`)}

	var receiver struct {
		Level int `json:"level"`
	}
	require.NoError(t, ExtractKeyFromMap("a", m, &receiver))
	assert.Equal(t, 3, receiver.Level)

	assert.Error(t, ExtractKeyFromMap("b", m, &receiver))
}

func TestCreateDirAndFileIfNoExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")

	require.NoError(t, CreateDirAndFileIfNoExist(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))

	require.NoError(t, os.WriteFile(path, []byte(`{"x": 1}`), 0644))
	require.NoError(t, CreateDirAndFileIfNoExist(path))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"x": 1}`, string(content))
}

func TestGetProjectRoot(t *testing.T) {
	root, err := GetProjectRoot()
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
}
