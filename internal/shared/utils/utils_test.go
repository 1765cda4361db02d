package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	number := GenerateOrderNumber(now)

	assert.Len(t, number, 19)
	assert.Regexp(t, `^ORD-20260310-\d{6}$`, number)
}

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"I will design your logo", "i-will-design-your-logo"},
		{"SEO Audit & Report!!", "seo-audit-report"},
		{"  spaced   out  ", "spaced-out"},
		{"Déjà vu design", "dj-vu-design"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, GenerateSlug(tc.title), "slug of %q", tc.title)
	}
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}
