//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateTestWorkspace creates a temporary directory that doubles as $HOME
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// CreateBuild creates a build directory named name under the workspace's builds dir
func (tf *TUITestFramework) CreateBuild(name string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	dir := filepath.Join(tf.workspace, "builds", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create build %s: %w", name, err)
	}
	return dir, nil
}

// WriteConfig writes a config that points at the workspace builds dir and
// commitsURL, or an unreachable feed when it is empty, and returns its path
func (tf *TUITestFramework) WriteConfig(commitsURL string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	if commitsURL == "" {
		commitsURL = "http://127.0.0.1:1/commits"
	}
	path := filepath.Join(tf.workspace, "config.toml")
	content := fmt.Sprintf(`builds_dir = %q
commits_url = %q
log_file = %q
`, filepath.Join(tf.workspace, "builds"), commitsURL, filepath.Join(tf.workspace, "stationhub.log"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
