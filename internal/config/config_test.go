package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		},
		Session: SessionConfig{
			DefaultSubject: "physics",
		},
		Server: ServerConfig{
			Port:        8080,
			MaxSessions: 100,
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
			},
		},
		Outputs: OutputsConfig{
			TranscriptDirectory: filepath.Join("outputs", "transcripts"),
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "tutor",
			Username: "user",
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	templatePath := filepath.Join(t.TempDir(), "transcript.md.go.tmpl")
	require.NoError(t, os.WriteFile(templatePath, []byte("{{ .Title }}"), 0644))

	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		wantErr           bool
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:            "no config file uses defaults",
			useExplicitPath: false,
			want:            defaultConfig,
		},
		{
			name: "valid config file with custom values",
			configContent: `gemini:
  model: gemini-1.5-pro
  base_url: http://localhost:9999/v1beta
session:
  default_subject: math
server:
  port: 9090
  max_sessions: 5
  cors:
    allowed_origins:
      - https://tutor.example.com
outputs:
  transcript_directory: custom/transcripts
  transcript_template: ` + templatePath + `
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Gemini.Model = "gemini-1.5-pro"
				cfg.Gemini.BaseURL = "http://localhost:9999/v1beta"
				cfg.Session.DefaultSubject = "math"
				cfg.Server = ServerConfig{
					Port:        9090,
					MaxSessions: 5,
					CORS:        CORSConfig{AllowedOrigins: []string{"https://tutor.example.com"}},
				}
				cfg.Outputs = OutputsConfig{
					TranscriptDirectory: "custom/transcripts",
					TranscriptTemplate:  templatePath,
				}
				return cfg
			},
		},
		{
			name: "environment overrides",
			configContent: `gemini:
  model: from-file
`,
			useExplicitPath: false,
			env: map[string]string{
				"GEMINI_API_KEY": "env-key",
				"GEMINI_MODEL":   "from-env",
				"DB_PASSWORD":    "db-secret",
			},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Gemini.APIKey = "env-key"
				cfg.Gemini.Model = "from-env"
				cfg.Database.Password = "db-secret"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `gemini:
  model: x
  invalid yaml format here [[[
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown subject",
			configContent: `session:
  default_subject: chemistry
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"invalid configuration",
				"session.default_subject must be physics or math",
			},
		},
		{
			name: "missing template file",
			configContent: `outputs:
  transcript_template: /does/not/exist.tmpl
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"outputs.transcript_template must be an existing and readable file",
			},
		},
		{
			name: "invalid base url and port",
			configContent: `gemini:
  base_url: not a url
server:
  port: 70000
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"base_url",
				"port",
			},
		},
		{
			name: "enabled database requires a host",
			configContent: `database:
  enabled: true
  host: ""
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"host",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"GEMINI_API_KEY", "GEMINI_MODEL", "DB_PASSWORD"} {
				// viper ignores empty variables
				t.Setenv(key, tt.env[key])
			}

			tempDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "tutor.yml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			} else {
				if tt.configContent != "" {
					err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644)
					require.NoError(t, err)
				}
				t.Chdir(tempDir)
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}
