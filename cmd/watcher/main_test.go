package main

import (
	"context"
	"testing"

	"solana-amm-quoter/internal/trade"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLogsUnclassifiableNotification(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	w := &Watcher{
		classifier: trade.NewClassifier(logger),
		log:        logger,
	}

	// No transaction body: the classifier rejects it, and the failure
	// must still leave a log line behind.
	w.Handle(context.Background(), &trade.Notification{Slot: 1})

	require.NotEmpty(t, hook.Entries)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "notification not classifiable", entry.Message)
	assert.ErrorIs(t, entry.Data["error"].(error), trade.ErrParse)
}

func TestHandleLogsFailedTransaction(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	w := &Watcher{
		classifier: trade.NewClassifier(logger),
		log:        logger,
	}

	w.Handle(context.Background(), &trade.Notification{
		Slot:        2,
		Transaction: &trade.Transaction{Message: trade.Message{AccountKeys: []string{"payer"}}},
		Meta:        &trade.Meta{Err: map[string]any{"InstructionError": []any{}}},
	})

	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}
