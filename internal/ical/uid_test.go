package ical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveUIDDeterministic(t *testing.T) {
	a := DeriveUID("Standup", "2025-06-01T09:00:00+01:00")
	b := DeriveUID("Standup", "2025-06-01T09:00:00+01:00")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "evt_"))
}

func TestDeriveUIDDistinguishesStarts(t *testing.T) {
	a := DeriveUID("Standup", "2025-06-01T09:00:00+01:00")
	b := DeriveUID("Standup", "2025-06-02T09:00:00+01:00")
	assert.NotEqual(t, a, b)
}

func TestDeriveUIDDistinguishesSummaries(t *testing.T) {
	a := DeriveUID("Standup", "2025-06-01T09:00:00+01:00")
	b := DeriveUID("Retro", "2025-06-01T09:00:00+01:00")
	assert.NotEqual(t, a, b)
}
