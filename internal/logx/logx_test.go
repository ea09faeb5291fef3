package logx

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFields_Constructors(t *testing.T) {
	boom := errors.New("boom")

	require.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	require.Equal(t, Field{Key: "k", Value: 1}, Int("k", 1))
	require.Equal(t, Field{Key: "k", Value: 2.5}, Float64("k", 2.5))
	require.Equal(t, Field{Key: "k", Value: true}, Bool("k", true))
	require.Equal(t, Field{Key: "k", Value: time.Second}, Duration("k", time.Second))
	require.Equal(t, Field{Key: "err", Value: boom}, Err(boom))
	require.Equal(t, Field{Key: "order_id", Value: "o1"}, OrderID("o1"))
}

func TestNopLogger_NoPanic(t *testing.T) {
	l := Nop()
	l.Debug("d", String("k", "v"))
	l.Info("i", Int("n", 1))
	l.Warn("w")
	l.Error("e")

	l2 := l.With(String("x", "y"))
	require.NotNil(t, l2)
	require.NoError(t, l2.Sync())
}

func TestNewSlog_JSONWritesFieldsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlog(&buf, "json", "info").With(String("component", "dispatch"))

	l.Debug("hidden")
	l.Warn("offer rejected", OrderID("o1"), Err(errors.New("window closed")))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"component":"dispatch"`)
	require.Contains(t, out, `"order_id":"o1"`)
	require.Contains(t, out, `"err":"window closed"`)
	require.NoError(t, l.Sync())
}

func TestNewSlog_TextFormatAndDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlog(&buf, "text", "debug")

	l.Debug("visible", Int("n", 3))
	require.Contains(t, buf.String(), "visible")
	require.Contains(t, buf.String(), "n=3")
}

func TestZapAdapter_ForwardsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapAdapter(zap.New(core)).With(String("component", "notify"))

	l.Info("published", OrderID("o1"))
	l.Error("publish failed", Err(errors.New("broker down")))

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "published", entries[0].Message)
	require.Equal(t, "o1", entries[0].ContextMap()["order_id"])
	require.Equal(t, "notify", entries[0].ContextMap()["component"])
	require.Equal(t, "broker down", entries[1].ContextMap()["err"])
}
