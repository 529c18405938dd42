package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunc_EmitNil(t *testing.T) {
	var f Func
	assert.NotPanics(t, func() { f.Emit(LevelInfo, "ignored %d", 1) })
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	f := Func(rec.Record)

	f.Emit(LevelWarning, "missing %s", "Chao")
	f.Emit(LevelInfo, "done")
	f.Emit(LevelWarning, "missing %s", "Xuehua")

	events := rec.Events()
	assert.Len(t, events, 3)
	assert.Equal(t, "missing Chao", events[0].Message)
	assert.Equal(t, 2, rec.Count(LevelWarning))
	assert.Equal(t, 0, rec.Count(LevelError))
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "unknown", Level(42).String())
}
