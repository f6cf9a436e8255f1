package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	origVersion, origBuild := Version, Build
	t.Cleanup(func() { Version, Build = origVersion, origBuild })

	Version, Build = "1.2.3", "unknown"
	assert.Equal(t, "1.2.3", GetFullVersion())

	Build = "20250301"
	assert.Equal(t, "1.2.3-20250301", GetFullVersion())
}
