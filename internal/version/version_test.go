package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	oldCommit, oldTime := GitCommit, BuildTime
	t.Cleanup(func() { GitCommit, BuildTime = oldCommit, oldTime })

	GitCommit, BuildTime = "abc1234", "2025-06-01"
	assert.Equal(t, "goslope v"+Version+" (commit abc1234, built 2025-06-01)", Info())
}
