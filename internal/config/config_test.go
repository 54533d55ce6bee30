package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ANALYSIS_MAX_ITERATIONS", "")
	t.Setenv("ANALYSIS_SEED", "")

	cfg := Load()
	assert.Equal(t, 50, cfg.Analysis.MaxIterations)
	assert.Equal(t, 200, cfg.Analysis.PowerIterations)
	assert.Equal(t, 10*time.Minute, cfg.Analysis.LockTTL)
	assert.Equal(t, int64(0), cfg.Analysis.Seed)
	assert.Equal(t, "RUN_CORPUS_ANALYSIS", cfg.Analysis.JobTopic)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ANALYSIS_MAX_ITERATIONS", "12")
	t.Setenv("ANALYSIS_RETENTION_RUNS", "3")
	t.Setenv("ANALYSIS_LOCK_TTL_SECONDS", "30")
	t.Setenv("ANALYSIS_SEED", "42")
	t.Setenv("APP_PORT", "8080")

	cfg := Load()
	assert.Equal(t, 12, cfg.Analysis.MaxIterations)
	assert.Equal(t, 3, cfg.Analysis.RetentionRuns)
	assert.Equal(t, 30*time.Second, cfg.Analysis.LockTTL)
	assert.Equal(t, int64(42), cfg.Analysis.Seed)
	assert.Equal(t, "8080", cfg.App.Port)
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}
