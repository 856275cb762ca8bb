package hostinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskProbe_Quota(t *testing.T) {
	p := NewDiskProbe(t.TempDir())

	q, err := p.Quota(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, q.TotalBytes)
	assert.LessOrEqual(t, q.FreeBytes, q.TotalBytes)
}

func TestNewDiskProbe_DefaultsToWorkingDir(t *testing.T) {
	assert.Equal(t, ".", NewDiskProbe("").Path)
}

func TestDiskProbe_MissingPath(t *testing.T) {
	p := NewDiskProbe("/definitely/not/a/real/path")

	_, err := p.Quota(context.Background())
	assert.Error(t, err)
}
