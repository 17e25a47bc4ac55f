package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		ParseOrigins(" https://a.example, ,https://b.example "))
	assert.Nil(t, ParseOrigins(""))
	assert.Equal(t, []string{"*"}, ParseOrigins(" * "))
}

func TestCORS_FromEnv(t *testing.T) {
	tests := []struct {
		name            string
		env             map[string]string
		wantOrigins     []string
		wantCredentials bool
		wantMaxAge      int
		wantErr         bool
	}{
		{
			name:            "defaults",
			wantOrigins:     []string{"http://localhost:3000"},
			wantCredentials: true,
			wantMaxAge:      86400,
		},
		{
			name:            "explicit origins",
			env:             map[string]string{EnvCORSOrigins: "https://app.example,https://admin.example"},
			wantOrigins:     []string{"https://app.example", "https://admin.example"},
			wantCredentials: true,
			wantMaxAge:      86400,
		},
		{
			name:            "wildcard disables credentials",
			env:             map[string]string{EnvCORSOrigins: "*"},
			wantOrigins:     []string{"*"},
			wantCredentials: false,
			wantMaxAge:      86400,
		},
		{
			name:    "wildcard with explicit credentials is rejected",
			env:     map[string]string{EnvCORSOrigins: "*", EnvCORSCredentials: "true"},
			wantErr: true,
		},
		{
			name:            "credentials disabled",
			env:             map[string]string{EnvCORSCredentials: "false"},
			wantOrigins:     []string{"http://localhost:3000"},
			wantCredentials: false,
			wantMaxAge:      86400,
		},
		{
			name:            "max age",
			env:             map[string]string{EnvCORSMaxAge: "600"},
			wantOrigins:     []string{"http://localhost:3000"},
			wantCredentials: true,
			wantMaxAge:      600,
		},
		{
			name:            "invalid max age keeps default",
			env:             map[string]string{EnvCORSMaxAge: "soon"},
			wantOrigins:     []string{"http://localhost:3000"},
			wantCredentials: true,
			wantMaxAge:      86400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := load("", envMap(tt.env), zerolog.Nop())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "wildcard")
				return
			}
			require.NoError(t, err)
			cors := cfg.Server.CORS
			assert.Equal(t, tt.wantOrigins, cors.AllowedOrigins)
			assert.Equal(t, tt.wantCredentials, cors.Credentials())
			assert.Equal(t, tt.wantMaxAge, cors.MaxAge)
		})
	}
}
