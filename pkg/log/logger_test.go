package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	logger := New("test")
	SetLevel(Notice)
	logger.Info("hidden")
	logger.Notice("shown")
	logger.Errorf("failed %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "failed 42")
	assert.Contains(t, out, "[test]")

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("tile %d", 7)
	assert.Contains(t, buf.String(), "tile 7")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	p := Printer(New("renderer"))
	p.Printf("rendered %d tiles\n", 3)
	assert.Contains(t, buf.String(), "rendered 3 tiles")
	assert.Contains(t, buf.String(), "[renderer]")

	buf.Reset()
	SetLevel(Warning)
	p.Printf("quiet")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	for name, expected := range map[string]Level{
		"debug":   Debug,
		"INFO":    Info,
		"notice":  Notice,
		"warn":    Warning,
		"warning": Warning,
		"error":   Error,
	} {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, level, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
