package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	testCases := []struct {
		description string
		a           interface{}
		b           interface{}
		wantEqual   bool
	}{
		{
			description: "key order does not affect the digest",
			a:           map[string]interface{}{"type": "statement", "content": "A"},
			b:           map[string]interface{}{"content": "A", "type": "statement"},
			wantEqual:   true,
		},
		{
			description: "different content yields a different digest",
			a:           map[string]interface{}{"type": "statement", "content": "A"},
			b:           map[string]interface{}{"type": "statement", "content": "B"},
			wantEqual:   false,
		},
		{
			description: "nested arrays preserve order",
			a:           map[string]interface{}{"modifiers": []interface{}{"urgent", "strong_positive"}},
			b:           map[string]interface{}{"modifiers": []interface{}{"strong_positive", "urgent"}},
			wantEqual:   false,
		},
	}

	for _, tc := range testCases {
		got := Canonical(tc.a) == Canonical(tc.b)
		assert.Equal(t, tc.wantEqual, got, tc.description)
	}
}

func TestCanonicalDeterministic(t *testing.T) {
	v := map[string]interface{}{"type": "tension", "source": "a", "target": "b", "axis_label": "speed vs quality"}
	first := Canonical(v)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Canonical(v))
	}
	assert.Len(t, first, 64)
}

func TestFingerprintStable(t *testing.T) {
	v := map[string]interface{}{"type": "statement", "content": "A"}
	assert.Equal(t, Fingerprint(v), Fingerprint(v))
}
