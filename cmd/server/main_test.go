package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPICommand(t *testing.T) {
	t.Setenv("APP_APP_TITLE", "Poster CLI")
	t.Setenv("APP_LOGGER_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"openapi"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc), out.String())
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "Poster CLI", doc["info"].(map[string]any)["title"])

	paths := doc["paths"].(map[string]any)
	for _, p := range []string{"/health/live", "/health/ready", "/version", "/routes"} {
		assert.Contains(t, paths, p)
	}
}
