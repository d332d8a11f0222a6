// Package testutil provides shared test helpers for creating config files.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig writes a config file pointing at baseURL, with the session
// file, the calendar output and colors set up for tests under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir, baseURL string) string {
	t.Helper()

	configContent := fmt.Sprintf(`server:
  base_url: %s
  retry_attempts: 0
session:
  file: %s
display:
  timezone: UTC
  color: false
calendar:
  output: %s
`,
		baseURL,
		SessionFile(tmpDir),
		filepath.Join(tmpDir, "mdj.ics"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SessionFile is where SetupTestConfig keeps the session.
func SessionFile(tmpDir string) string {
	return filepath.Join(tmpDir, "session.yml")
}

// SetupTestConfigWithAccount also stores credentials, for tests that log in
// without flags or environment variables.
func SetupTestConfigWithAccount(t *testing.T, tmpDir, baseURL, email, password string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir, baseURL)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("account:\n  email: %s\n  password: %s\n", email, password))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}
