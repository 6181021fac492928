package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ukgeotools/bgsmcp/pkg/testutil"
)

func TestGenerateClientConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("empty path", func(t *testing.T) {
		if err := generateClientConfig(""); err == nil {
			t.Error("expected an error for an empty output path")
		}
	})

	t.Run("new config", func(t *testing.T) {
		path := filepath.Join(tmpDir, "config.json")
		if err := generateClientConfig(path); err != nil {
			t.Fatalf("generateClientConfig() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read config file: %v", err)
		}

		var config map[string]interface{}
		if err := json.Unmarshal(data, &config); err != nil {
			t.Fatalf("failed to parse config JSON: %v", err)
		}

		servers, ok := config["mcpServers"].(map[string]interface{})
		if !ok {
			t.Fatal("config missing mcpServers section")
		}
		entry, ok := servers["BGS Boreholes"].(map[string]interface{})
		if !ok {
			t.Fatal("config missing BGS Boreholes server entry")
		}
		if cmd, _ := entry["command"].(string); cmd == "" {
			t.Error("server entry has no command")
		}
	})

	t.Run("merge with existing", func(t *testing.T) {
		path := filepath.Join(tmpDir, "merge.json")
		existing := map[string]interface{}{
			"existing_key": "existing_value",
			"mcpServers": map[string]interface{}{
				"Other": map[string]interface{}{"command": "/bin/other"},
			},
		}
		data, err := json.Marshal(existing)
		if err != nil {
			t.Fatalf("failed to marshal existing config: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("failed to write existing config: %v", err)
		}

		if err := generateClientConfig(path); err != nil {
			t.Fatalf("generateClientConfig() error = %v", err)
		}

		merged, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read merged config: %v", err)
		}
		var config map[string]interface{}
		if err := json.Unmarshal(merged, &config); err != nil {
			t.Fatalf("failed to parse merged config: %v", err)
		}

		if val, ok := config["existing_key"]; !ok || val != "existing_value" {
			t.Error("merge failed to preserve existing content")
		}
		servers, _ := config["mcpServers"].(map[string]interface{})
		if _, ok := servers["Other"]; !ok {
			t.Error("merge failed to preserve existing server entry")
		}
		if _, ok := servers["BGS Boreholes"]; !ok {
			t.Error("merge failed to add the BGS Boreholes entry")
		}
	})
}

func TestEnvFloat(t *testing.T) {
	logger := testutil.DiscardLogger()

	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{name: "unset", value: "", want: 0},
		{name: "valid", value: "2.5", want: 2.5},
		{name: "malformed", value: "fast", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "BGSMCP_TEST_RATE"
			if tt.value == "" {
				os.Unsetenv(key)
			} else {
				t.Setenv(key, tt.value)
			}
			if got := envFloat(key, logger); got != tt.want {
				t.Errorf("envFloat(%q) = %f, want %f", tt.value, got, tt.want)
			}
		})
	}
}
