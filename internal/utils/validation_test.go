package utils

import "testing"

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"docker", true},
		{"api_server", true},
		{"node-deps", true},
		{"web3", true},
		{"_internal", true},
		{"3proxy", false}, // must start with a letter or underscore
		{"Docker", false}, // lowercase only
		{"api@server", false},
		{"api server", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidName(tt.name); got != tt.valid {
			t.Errorf("IsValidName(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestIsOneOf(t *testing.T) {
	allowed := []string{"console", "window", "gui"}

	if !IsOneOf("console", allowed...) {
		t.Error("IsOneOf('console') should be true")
	}
	if !IsOneOf("gui", allowed...) {
		t.Error("IsOneOf('gui') should be true")
	}
	if IsOneOf("fullscreen", allowed...) {
		t.Error("IsOneOf('fullscreen') should be false")
	}
	if IsOneOf("", allowed...) {
		t.Error("IsOneOf('') should be false")
	}
}
