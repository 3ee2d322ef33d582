package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/waterdrop/ecs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBench(t *testing.T) {
	tests := []struct {
		name     string
		ttlEvery int
		expire   bool
	}{
		{name: "no ttl", ttlEvery: 0},
		{name: "recycled slots", ttlEvery: 2, expire: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := runBench(benchOptions{Entities: 100, Frames: 120, TTLEvery: tt.ttlEvery, Seed: 7}, zerolog.Nop())
			require.NoError(t, err)

			assert.Equal(t, 120, res.Frames)
			assert.Equal(t, 100, res.Alive)
			assert.Equal(t, 100+res.Expired, res.Spawned)
			if tt.expire {
				assert.Positive(t, res.Expired)
			} else {
				assert.Zero(t, res.Expired)
			}
		})
	}
}

func TestRunBenchRejectsBadOptions(t *testing.T) {
	_, err := runBench(benchOptions{Entities: 0, Frames: 1}, zerolog.Nop())
	assert.ErrorIs(t, err, ecs.ErrInvalidConfig)
}

func TestRunBenchUsesWorldConfig(t *testing.T) {
	// the standard components need more than four type slots
	_, err := runBench(benchOptions{World: ecs.Config{MaxEntities: 1, MaxComponents: 4}, Entities: 10, Frames: 1}, zerolog.Nop())
	assert.ErrorIs(t, err, ecs.ErrTooManyComponents)

	res, err := runBench(benchOptions{World: ecs.Config{MaxEntities: 1, MaxComponents: 8}, Entities: 10, Frames: 1}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 10, res.Alive)
}

func TestRunCommandReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  max_components: 4\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"run", "--config", path, "--entities", "10", "--frames", "1"})
	assert.ErrorIs(t, cmd.Execute(), ecs.ErrTooManyComponents)
}

func TestRunCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"run", "--entities", "10", "--frames", "5"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "frames=5 entities=10")
}

func TestRunCommandUnknownProfile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"run", "--frames", "1", "--profile", "gpu"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile mode")
}
