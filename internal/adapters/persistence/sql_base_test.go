package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"UPDATE salons SET x = ? WHERE id = ?", "UPDATE salons SET x = $1 WHERE id = $2"},
		{"SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rebind(tt.in))
	}

	b := sqlBase{postgres: false}
	assert.Equal(t, "a = ?", b.q("a = ?"))
}
