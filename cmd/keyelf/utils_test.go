package keyelf

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redactyl/keyelf/internal/config"
)

func TestPickString_Precedence(t *testing.T) {
	local, global := "local", "global"
	assert.Equal(t, "cli", pickString("cli", &local, &global))
	assert.Equal(t, "local", pickString("", &local, &global))
	assert.Equal(t, "global", pickString("", nil, &global))
	assert.Equal(t, "", pickString("", nil, nil))
}

func TestPickInt_Precedence(t *testing.T) {
	l, g := 4096, 8192
	assert.Equal(t, 100, pickInt(100, &l, &g))
	assert.Equal(t, 4096, pickInt(0, &l, &g))
	assert.Equal(t, 8192, pickInt(0, nil, &g))
}

func TestPickBool_LocalFalseOverridesGlobal(t *testing.T) {
	f, tr := false, true
	assert.False(t, pickBool(false, false, &f, &tr))
	assert.True(t, pickBool(true, true, &f, &f))
	assert.True(t, pickBool(false, false, nil, &tr))
	assert.False(t, pickBool(false, false, nil, nil))
}

func TestPickBool_ExplicitFalseOverridesConfig(t *testing.T) {
	tr := true
	assert.False(t, pickBool(false, true, &tr, &tr), "--addresses=false beats addresses: true")
	assert.True(t, pickBool(false, false, &tr, nil), "an unset flag defers to config")
}

func TestPickDuration(t *testing.T) {
	l, g, bad := "10s", "1m", "later"
	d, err := pickDuration(0, config.FileConfig{Timeout: &l}, config.FileConfig{Timeout: &g})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	d, err = pickDuration(0, config.FileConfig{}, config.FileConfig{Timeout: &g})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	d, err = pickDuration(2*time.Second, config.FileConfig{Timeout: &bad}, config.FileConfig{})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	_, err = pickDuration(0, config.FileConfig{Timeout: &bad}, config.FileConfig{})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"": slog.LevelWarn, "DEBUG": slog.LevelDebug, "info": slog.LevelInfo, "error": slog.LevelError} {
		got, err := parseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := parseLevel("chatty")
	assert.Error(t, err)
}
