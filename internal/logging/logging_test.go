package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestLogger(verbose, debug bool) (Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return Logger{Verbose: verbose, Debug: debug, Out: &out, Err: &errOut}, &out, &errOut
}

func TestLoggerLevels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name       string
		verbose    bool
		debug      bool
		wantInfo   bool
		wantDebug  bool
		wantWarnIf bool
	}{
		{"quiet", false, false, false, false, false},
		{"verbose", true, false, true, false, true},
		{"debug", false, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, out, errOut := newTestLogger(tt.verbose, tt.debug)
			log.Infof("layer %d", 1)
			log.Debugf("key %d", 0)
			log.Warnf("slow")

			if got := strings.Contains(out.String(), "[info] layer 1"); got != tt.wantInfo {
				t.Errorf("info shown = %v, want %v (out=%q)", got, tt.wantInfo, out.String())
			}
			if got := strings.Contains(out.String(), "[debug] key 0"); got != tt.wantDebug {
				t.Errorf("debug shown = %v, want %v (out=%q)", got, tt.wantDebug, out.String())
			}
			if got := strings.Contains(errOut.String(), "[warn] slow"); got != tt.wantWarnIf {
				t.Errorf("warn shown = %v, want %v (err=%q)", got, tt.wantWarnIf, errOut.String())
			}
		})
	}
}

func TestWarnfAlwaysAndErrorf(t *testing.T) {
	color.NoColor = true
	log, _, errOut := newTestLogger(false, false)

	log.WarnfAlways("config %s is world readable", "mucli_config.txt")
	log.Errorf("boom")

	if !strings.Contains(errOut.String(), "[warn] config mucli_config.txt is world readable") {
		t.Errorf("missing warning, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "[error] boom") {
		t.Errorf("missing error, got %q", errOut.String())
	}
}

func TestErrorfAndReturn(t *testing.T) {
	color.NoColor = true
	log, _, errOut := newTestLogger(false, false)

	err := log.ErrorfAndReturn("failed to open %s", "a.txt")
	if err == nil || err.Error() != "failed to open a.txt" {
		t.Fatalf("unexpected error: %v", err)
	}
	if errOut.Len() != 0 {
		t.Errorf("expected nothing logged outside debug mode, got %q", errOut.String())
	}
}
