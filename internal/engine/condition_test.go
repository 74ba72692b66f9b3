package engine_test

import (
	"testing"

	"github.com/melih-ucgun/rigup/internal/engine"
)

func TestEvaluateCondition(t *testing.T) {
	env := map[string]any{
		"os":     "linux",
		"distro": "arch",
		"vars":   map[string]string{"profile": "full"},
		"env":    map[string]string{"CI": "true"},
	}

	tests := []struct {
		cond    string
		want    bool
		wantErr bool
	}{
		{`os == "linux"`, true, false},
		{`os == "darwin"`, false, false},
		{`distro in ["arch", "manjaro"]`, true, false},
		{`vars.profile == "full" && env.CI == "true"`, true, false},
		{`os ==`, false, true},      // syntax error
		{`1 + 1`, false, true},      // not a boolean
		{`unknown.field`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			got, err := engine.EvaluateCondition(tt.cond, env)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("want error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateCondition(%q) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}
