package logger_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structsheet/structsheet/internal/logger"
)

func TestLeveledHelpersWriteFormattedMessages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger.InitLogging(path)

	ctx := context.Background()
	logger.InfoLog(ctx, "exported %d records", 42)
	logger.WarnLog(ctx, "backend %s unavailable", "elastic")
	logger.ErrorLog(ctx, "export failed: %v", os.ErrNotExist)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `"message":"exported 42 records"`)
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"message":"backend elastic unavailable"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "export failed")
	assert.Contains(t, out, `"level":"error"`)
}
