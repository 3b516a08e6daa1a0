package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretscout/fretscout/internal/notify"
	"github.com/fretscout/fretscout/pkg/logger"
)

func TestNoOpNotifier(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug", "text")

	n := notify.NewNoOpNotifier(log)

	require.NoError(t, n.SendAlert(context.Background(), testPayload()))
	assert.Contains(t, buf.String(), "notification discarded")

	buf.Reset()
	require.NoError(t, n.SendBatchAlert(context.Background(), []notify.AlertPayload{*testPayload()}, "strat"))
	assert.Contains(t, buf.String(), "batch notification discarded")
}
