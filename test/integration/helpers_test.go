//go:build integration

package integration

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// buildBinary compiles cmd/carboncam into a temporary directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	binaryPath := filepath.Join(t.TempDir(), "carboncam")
	rootDir, err := filepath.Abs("../..")
	require.NoError(t, err)

	cmdBuild := exec.Command("go", "build", "-o", binaryPath, "./cmd/carboncam")
	cmdBuild.Dir = rootDir
	output, err := cmdBuild.CombinedOutput()
	require.NoError(t, err, "Build failed: %s", string(output))
	return binaryPath
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

// startServer runs "carboncam serve" with env and waits for /health.
// It returns the base URL; the process is stopped when the test ends.
func startServer(t *testing.T, binaryPath string, env ...string) string {
	t.Helper()
	addr := fmt.Sprintf("127.0.0.1:%d", freePort(t))

	var stderr strings.Builder
	cmd := exec.Command(binaryPath, "serve")
	cmd.Env = append(os.Environ(), "CARBONCAM_HTTP_ADDR="+addr, "CARBONCAM_LOG_FORMAT=json")
	cmd.Env = append(cmd.Env, env...)
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Signal(os.Interrupt)
		done := make(chan struct{})
		go func() {
			_ = cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			_ = cmd.Process.Kill()
		}
	})

	baseURL := "http://" + addr
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return baseURL
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for server on %s. Stderr: %s", addr, stderr.String())
	return ""
}
