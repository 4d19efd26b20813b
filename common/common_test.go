package common

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 256, Coalesce(0, 256, 64))
	assert.Equal(t, "", Coalesce("", ""))
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, 0, AlignUp(256, 0))
	assert.Equal(t, 256, AlignUp(256, 16))
	assert.Equal(t, 512, AlignUp(256, 304))
	assert.Equal(t, 300, AlignUp(100, 300))
	assert.Equal(t, 7, AlignUp(0, 7))
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("packed", "bytes", 1024)
	assert.Contains(t, buf.String(), "bytes=1024")

	SetLogger(nil)
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}
