package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-a", "http://localhost:8000", "-d", "loop.db"},
			allowedFlags: []string{"-a", "--api"},
			want:         []string{"-a", "http://localhost:8000"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--api=http://api.local", "-d", "loop.db"},
			allowedFlags: []string{"-a", "--api"},
			want:         []string{"--api=http://api.local"},
		},
		{
			name:         "both forms present, order preserved",
			args:         []string{"--api=first", "-a", "second", "-x", "1"},
			allowedFlags: []string{"-a", "--api"},
			want:         []string{"--api=first", "-a", "second"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-a", "--api"},
			want:         []string{},
		},
		{
			name:         "flag at end without value",
			args:         []string{"-x", "1", "-a"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a"},
		},
		{
			name:         "value that looks like a flag is not consumed",
			args:         []string{"-a", "-d"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterArgs(tc.args, tc.allowedFlags)
			assert.Equal(t, tc.want, got)
		})
	}
}
