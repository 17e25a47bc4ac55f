//go:build integration

package integration

import (
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	binaryPath := buildBinary(t)

	tests := []struct {
		name              string
		env               []string
		origin            string
		expectCors        bool
		expectOrigin      string
		expectMaxAge      string
		expectCredentials bool
	}{
		{
			name:              "Default origin",
			origin:            "http://localhost:3000",
			expectCors:        true,
			expectOrigin:      "http://localhost:3000",
			expectMaxAge:      "86400",
			expectCredentials: true,
		},
		{
			name:       "No Match",
			env:        []string{"CORS_ALLOW_ORIGINS=https://app.example.com"},
			origin:     "http://evil.com",
			expectCors: false,
		},
		{
			name: "Custom Max Age",
			env: []string{
				"CORS_ALLOW_ORIGINS=https://app.example.com, https://admin.example.com",
				"CARBONCAM_CORS_MAX_AGE=60",
			},
			origin:            "https://admin.example.com",
			expectCors:        true,
			expectOrigin:      "https://admin.example.com",
			expectMaxAge:      "60",
			expectCredentials: true,
		},
		{
			name:         "Wildcard without credentials",
			env:          []string{"CORS_ALLOW_ORIGINS=*"},
			origin:       "https://anywhere.example",
			expectCors:   true,
			expectOrigin: "*",
		},
		{
			name: "Credentials disabled",
			env: []string{
				"CORS_ALLOW_ORIGINS=http://localhost:3000",
				"CARBONCAM_CORS_ALLOW_CREDENTIALS=false",
			},
			origin:       "http://localhost:3000",
			expectCors:   true,
			expectOrigin: "http://localhost:3000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseURL := startServer(t, binaryPath, tt.env...)

			// Preflight
			req, err := http.NewRequest(http.MethodOptions, baseURL+"/v1/calculate", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			client := &http.Client{Timeout: 2 * time.Second}
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
			if !tt.expectCors {
				assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
				return
			}
			assert.Equal(t, tt.expectOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
			if tt.expectMaxAge != "" {
				assert.Equal(t, tt.expectMaxAge, resp.Header.Get("Access-Control-Max-Age"))
			}
			if tt.expectCredentials {
				assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
			}
		})
	}

	t.Run("Fatal Error Wildcard + Credentials", func(t *testing.T) {
		cmd := exec.Command(binaryPath, "serve")
		cmd.Env = append(os.Environ(),
			"CORS_ALLOW_ORIGINS=*",
			"CARBONCAM_CORS_ALLOW_CREDENTIALS=true",
		)

		output, err := cmd.CombinedOutput()
		assert.Error(t, err, "process should have failed")
		assert.Contains(t, string(output), "cannot enable CORS credentials with wildcard origin")
	})
}
