package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/maestranza-stock/pkg/logger"
)

func TestNewWithWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "warn")

	log.Info().Msg("no aparece")
	log.Warn().Str("item_id", "it-1").Msg("stock bajo")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &m))
	assert.Equal(t, "warn", m["level"])
	assert.Equal(t, "it-1", m["item_id"])
	assert.Equal(t, "stock bajo", m["message"])
	assert.Contains(t, m, "time")
}

func TestNewWithWriter_NivelDesconocidoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "verbose")

	log.Debug().Msg("descartado")
	assert.Empty(t, buf.String())
	log.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestWith_Sublogger(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter(&buf, "info")
	sub := base.With().Str("component", "engine").Logger()

	sub.Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"engine"`)
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Nop().Error().Msg("nada")
	})
}
