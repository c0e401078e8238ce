package config

import (
	"testing"
)

func TestResolveHost(t *testing.T) {
	tests := []struct {
		host     string
		inDocker bool
		expected string
	}{
		{"localhost", true, "host.docker.internal"},
		{"127.0.0.1", true, "host.docker.internal"},
		{"localhost", false, "localhost"},
		{"mydb.example.com", true, "mydb.example.com"},
		{"192.168.1.100", true, "192.168.1.100"},
	}

	for _, tt := range tests {
		if got := resolveHost(tt.host, tt.inDocker); got != tt.expected {
			t.Errorf("resolveHost(%q, %v) = %q, want %q", tt.host, tt.inDocker, got, tt.expected)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		rawURL   string
		inDocker bool
		expected string
	}{
		{"http://localhost:11434/v1", true, "http://host.docker.internal:11434/v1"},
		{"http://127.0.0.1/v1", true, "http://host.docker.internal/v1"},
		{"http://localhost:11434/v1", false, "http://localhost:11434/v1"},
		{"https://api.openai.com/v1", true, "https://api.openai.com/v1"},
		{"", true, ""},
		{"not a url", true, "not a url"},
	}

	for _, tt := range tests {
		if got := resolveURL(tt.rawURL, tt.inDocker); got != tt.expected {
			t.Errorf("resolveURL(%q, %v) = %q, want %q", tt.rawURL, tt.inDocker, got, tt.expected)
		}
	}
}
