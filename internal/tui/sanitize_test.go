package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTitle(t *testing.T) {
	tt := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain",
			input: "Queue: orders",
			want:  "Queue: orders",
		},
		{
			name:  "color codes stripped",
			input: "\x1B[31mQueue: orders\x1B[0m",
			want:  "Queue: orders",
		},
		{
			name:  "newlines replaced",
			input: "Queue: or\nders",
			want:  "Queue: or ders",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeTitle(tc.input))
		})
	}
}
