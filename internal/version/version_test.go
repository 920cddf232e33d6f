package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GitCommit, info.GitCommit)
	assert.Equal(t, "Version: dev, GitCommit: unknown", info.String())
}

func TestInfoJSON(t *testing.T) {
	out, err := Info{Version: "1.2.0", GitCommit: "abc123"}.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.2.0","gitCommit":"abc123"}`, out)
}
