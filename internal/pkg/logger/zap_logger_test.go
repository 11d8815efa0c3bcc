package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("note", "note created", map[string]interface{}{"note_id": 7})
	l.Warn("note", "no details", nil)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "note created", entries[0].Message)
		assert.Equal(t, "note", ctx["module"])
		assert.Equal(t, map[string]interface{}{"note_id": 7}, ctx["details"])

		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
	}
}
