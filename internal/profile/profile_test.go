package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsMode(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "bogus", Data: dir, Driver: "sqlite"}
	err := p.Validate()
	require.NoError(t, err)
	require.Equal(t, "demo", p.Mode)
	require.Equal(t, filepath.Join(dir, "cortex_demo.db"), p.DSN)
}

func TestValidateKeepsExplicitDSN(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Data: dir, Driver: "sqlite", DSN: "/tmp/custom.db"}
	err := p.Validate()
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.db", p.DSN)
}

func TestFromEnv(t *testing.T) {
	os.Setenv("CORTEX_QLOO_API_KEY", "test-key")
	os.Setenv("CORTEX_INSIGHT_PROVIDER", "openai")
	defer os.Unsetenv("CORTEX_QLOO_API_KEY")
	defer os.Unsetenv("CORTEX_INSIGHT_PROVIDER")

	p := &Profile{}
	p.FromEnv()
	require.Equal(t, "test-key", p.QlooAPIKey)
	require.Equal(t, "openai", p.InsightProvider)
	require.Equal(t, "https://hackathon.api.qloo.com", p.QlooBaseURL)
	require.Equal(t, "gemini-1.5-flash", p.GeminiModel)
}

func TestIsInsightEnabled(t *testing.T) {
	p := &Profile{}
	require.False(t, p.IsInsightEnabled())
	p.GeminiAPIKey = "k"
	require.True(t, p.IsInsightEnabled())
}
