package lookup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lorandel/Warehouse-Ramps/internal/lookup"
)

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "A456", lookup.NormalizeID("  A456  "))
	assert.Equal(t, "", lookup.NormalizeID("   "))
	assert.Equal(t, "o-154", lookup.NormalizeID("o-154"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, lookup.Fold("A456"), lookup.Fold("  a456 "))
	assert.Equal(t, lookup.Fold("O-154"), lookup.Fold("o-154"))
	assert.Equal(t, "", lookup.Fold("  "))
	assert.NotEqual(t, lookup.Fold("123"), lookup.Fold("124"))
}

func TestStripTrailerPrefix(t *testing.T) {
	tests := []struct {
		name    string
		trailer string
		want    string
		ok      bool
	}{
		{"lowercase prefix", "o-154", "154", true},
		{"uppercase prefix", "O-154", "154", true},
		{"mixed case body", "o-AbC", "AbC", true},
		{"no prefix", "154", "", false},
		{"prefix only", "o-", "", true},
		{"prefix mid-string", "15o-4", "", false},
		{"empty", "", "", false},
		{"whitespace around", "  o-77  ", "77", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookup.StripTrailerPrefix(tt.trailer)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
