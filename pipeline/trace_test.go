package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestParseDebugLevel(t *testing.T) {
	for _, valid := range []string{"debug", "info", "warn", "error", "crit"} {
		if got := ParseDebugLevel(valid); got != DebugLevel(valid) {
			t.Errorf("ParseDebugLevel(%q) = %q", valid, got)
		}
	}
	for _, invalid := range []string{"", "trace", "INFO", "verbose"} {
		if got := ParseDebugLevel(invalid); got != LevelNone {
			t.Errorf("ParseDebugLevel(%q) = %q, expected none", invalid, got)
		}
	}
}

func TestTrace_DisabledSnapshotsToNil(t *testing.T) {
	tr := NewTrace(LevelNone)
	tr.Step("decode", time.Now(), nil)
	tr.Fail(errors.New("boom"))
	if tr.Enabled() {
		t.Error("trace without a level should be disabled")
	}
	if tr.Snapshot() != nil {
		t.Error("disabled trace should snapshot to nil")
	}
}

func TestTrace_RecordsStagesAndFirstFailure(t *testing.T) {
	tr := NewTrace(LevelDebug)
	tr.Step("decode", time.Now(), map[string]interface{}{"file": "a.png"})
	tr.Step("transform", time.Now(), nil)
	tr.Fail(errors.New("first"))
	tr.Fail(errors.New("second"))

	info := tr.Snapshot()
	if info == nil {
		t.Fatal("expected a snapshot")
	}
	if info.Level != LevelDebug {
		t.Errorf("level %q, expected debug", info.Level)
	}
	if len(info.Stages) != 2 || info.Stages[0].Name != "decode" || info.Stages[1].Name != "transform" {
		t.Errorf("stages not recorded in order: %+v", info.Stages)
	}
	if info.Stages[0].Detail["file"] != "a.png" {
		t.Error("stage detail lost")
	}
	if info.Error != "first" {
		t.Errorf("error %q, expected the first recorded failure", info.Error)
	}
}
