package notify

import (
	"bytes"
	"strings"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	fcolor.NoColor = true
	m.Run()
}

func TestStep(t *testing.T) {
	var buf bytes.Buffer
	n := New(&buf)

	done := n.Step("Loading %s", "base grid")
	done("Loaded %s", "base grid")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "▶️  Loading base grid", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "✔️  Loaded base grid in "), lines[1])
}

func TestStepKeepsPercentSigns(t *testing.T) {
	var buf bytes.Buffer
	n := New(&buf)

	done := n.Step("Loading %s", "survey_100%.nc")
	done("Loaded %s", "survey_100%.nc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "▶️  Loading survey_100%.nc", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "✔️  Loaded survey_100%.nc in "), lines[1])
	assert.NotContains(t, buf.String(), "%!")
}

func TestNested(t *testing.T) {
	var buf bytes.Buffer
	n := New(&buf)

	n.Nested().Warningf("skipped %s", "a.nc")
	n.Infof("%d updates", 3)

	assert.Equal(t, "    ⚠️  skipped a.nc\nℹ️  3 updates\n", buf.String())
}

func TestFinished(t *testing.T) {
	var buf bytes.Buffer
	n := New(&buf)

	n.Errorf("failed")
	n.Finished()

	assert.Contains(t, buf.String(), "❌  failed\n")
	assert.Contains(t, buf.String(), "🎉  Finished in ")
}
