package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charkov.json")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.MaxOrder != 8 || config.Server == nil {
		t.Errorf("got unexpected defaults: %+v", config)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected default config file to be written: %v", err)
	}
	var written Config
	if err = json.Unmarshal(data, &written); err != nil {
		t.Fatalf("default config file is not valid JSON: %v", err)
	}
	if written.DefaultLength != config.DefaultLength {
		t.Errorf("written config differs from defaults: %+v", written)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charkov.json")
	content := `{"max_order": 4, "default_order": 2, "log_level": "debug"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.MaxOrder != 4 || config.DefaultOrder != 2 || config.LogLevel != "debug" {
		t.Errorf("overrides not applied: %+v", config)
	}
	if config.DefaultLength != DefaultConfig().DefaultLength || config.Server.Addr != ":7277" {
		t.Errorf("defaults lost for unset fields: %+v", config)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name          string
		content       string
		errorContains string
	}{
		{"malformed json", `{"max_order": `, "failed to parse"},
		{"default order above max", `{"max_order": 2, "default_order": 3}`, "default_order"},
		{"negative max order", `{"max_order": -1, "default_order": 0}`, "max_order"},
		{"zero default length", `{"default_length": 0}`, "default_length"},
		{"unknown encoding", `{"default_encoding": "ebcdic"}`, "unknown encoding"},
		{"unknown log level", `{"log_level": "loud"}`, "log_level"},
		{"bad drip range", `{"server_config": {"addr": ":1", "max_length": 10, "min_drip_feed_chunks": 5, "max_drip_feed_chunks": 2}}`, "chunk range"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "charkov.json")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected an error but got none")
			}
			if !strings.Contains(err.Error(), tc.errorContains) {
				t.Errorf("expected error to contain %q, but got %q", tc.errorContains, err.Error())
			}
		})
	}
}
