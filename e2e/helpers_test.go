package e2e_test

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	binaryPath     string
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	// Create shared temp directory for the binary
	var err error
	sharedTempDir, err = os.MkdirTemp("", "imagebin-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// ServerConfig holds configuration for starting the imagebin server.
type ServerConfig struct {
	Port        int
	DBType      string // sqlite, postgres
	DBDSN       string
	DBTable     string
	StoragePath string
}

// buildBinary compiles the imagebin binary once per test run.
// Returns the path to the compiled binary.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		binaryPath = filepath.Join(sharedTempDir, "imagebin")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/imagebin")
		cmd.Dir = getProjectRoot(t)
		output, err := cmd.CombinedOutput()
		if err != nil {
			binaryBuildErr = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
			return
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binary: %v", binaryBuildErr)
	}

	return binaryPath
}

// getProjectRoot returns the root directory of the imagebin project.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	// Find the go.mod file to determine project root
	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// createConfigFile creates a temporary config file for the server.
// Returns the path to the config file.
func createConfigFile(t *testing.T, cfg ServerConfig) string {
	t.Helper()

	table := cfg.DBTable
	if table == "" {
		table = "image_metadata"
	}

	content := fmt.Sprintf(`server:
  port: %d

database:
  type: %s
  dsn: "%s"
  table: %s

storage:
  type: filesystem
  path: "%s"

log:
  level: error
`,
		cfg.Port,
		cfg.DBType,
		cfg.DBDSN,
		table,
		cfg.StoragePath,
	)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err, "write config file")

	return configPath
}

// startServer starts the imagebin binary with the given configuration.
// Returns the base URL and a cleanup function that must be called to stop
// the server. Migrations run on startup, so no separate init step is
// needed.
func startServer(t *testing.T, cfg ServerConfig) (string, func()) {
	t.Helper()

	binary := buildBinary(t)
	configPath := createConfigFile(t, cfg)

	cmd := exec.Command(binary, "serve", "--config", configPath)

	// Capture output for debugging
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Start()
	require.NoError(t, err, "start server")

	baseURL := fmt.Sprintf("http://localhost:%d", cfg.Port)

	waitForServer(t, baseURL, 10*time.Second)

	cleanup := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	}

	return baseURL, cleanup
}

// waitForServer polls the health endpoint until it responds or times out.
func waitForServer(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server failed to start within %v", timeout)
}

// getOpenPort finds an available TCP port.
func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "find open port")

	addr := l.Addr().(*net.TCPAddr)
	port := addr.Port

	err = l.Close()
	require.NoError(t, err, "close port")

	return port
}
