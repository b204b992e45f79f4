package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"brand:*", "brand:42:menu", true},
		{"brand:*", "brand:", true},
		{"brand:*", "tenant:42:features", false},
		{"*:features", "tenant:42:features", true},
		{"*:features", "tenant:42:branches", false},
		{"*", "anything", true},
		{"exact", "exact", true},
		{"exact", "exact:not", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, matchPattern(tt.pattern, tt.key))
		})
	}
}
