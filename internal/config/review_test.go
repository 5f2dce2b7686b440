package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReviewPolicyDefaultsWhenFileMissing(t *testing.T) {
	holder, err := NewReviewPolicyHolder(Config{})
	require.NoError(t, err)

	policy := holder.Get()
	assert.Equal(t, 25, policy.Queue.DefaultLimit)
	assert.Equal(t, 10, policy.Listing.DefaultLimit)
	assert.Equal(t, "2006-01-02", policy.Export.DateLayout)
}

func TestReviewPolicyPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.yml")
	require.NoError(t, os.WriteFile(path, []byte("review:\n  queue:\n    defaultLimit: 40\n"), 0o600))

	holder, err := NewReviewPolicyHolder(Config{ReviewConfigPath: path})
	require.NoError(t, err)

	policy := holder.Get()
	assert.Equal(t, 40, policy.Queue.DefaultLimit)
	assert.Equal(t, 10, policy.Listing.DefaultLimit)
}

func TestReviewPolicyRejectsOutOfRangeLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.yml")
	require.NoError(t, os.WriteFile(path, []byte("review:\n  queue:\n    defaultLimit: 500\n"), 0o600))

	_, err := NewReviewPolicyHolder(Config{ReviewConfigPath: path})
	assert.Error(t, err)
}

func TestNilHolderFallsBackToDefaults(t *testing.T) {
	var holder *ReviewPolicyHolder
	assert.Equal(t, DefaultReviewPolicy(), holder.Get())
}

// replaceReviewFile swaps the file in with a rename so the watcher never
// observes a truncated file.
func replaceReviewFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

func TestReviewPolicyHotReload(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)

	path := filepath.Join(t.TempDir(), "review.yml")
	require.NoError(t, os.WriteFile(path, []byte("review:\n  queue:\n    defaultLimit: 25\n"), 0o600))

	holder, err := NewReviewPolicyHolder(Config{ReviewConfigPath: path})
	require.NoError(t, err)
	require.Equal(t, 25, holder.Get().Queue.DefaultLimit)

	replaceReviewFile(t, path, "review:\n  queue:\n    defaultLimit: 40\n")
	assert.Eventually(t, func() bool {
		return holder.Get().Queue.DefaultLimit == 40
	}, 5*time.Second, 20*time.Millisecond)

	replaceReviewFile(t, path, "review:\n  queue:\n    defaultLimit: 0\n")
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("review config reload ignored").Len() > 0
	}, 5*time.Second, 20*time.Millisecond)

	policy := holder.Get()
	assert.Equal(t, 40, policy.Queue.DefaultLimit)
	assert.Equal(t, 10, policy.Listing.DefaultLimit)
}
