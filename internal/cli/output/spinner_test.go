package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinner_StartStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Loading wallets")

	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Loading wallets") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("output %q should end by clearing the line", out)
	}
}

func TestSpinner_SuccessAndFail(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
		want string
	}{
		{"success", func(s *Spinner) { s.Success("done") }, "✓ done\n"},
		{"fail", func(s *Spinner) { s.Fail("boom") }, "✗ boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewSpinner(&buf, "Working")
			s.Start()
			tt.stop(s)
			if !strings.HasSuffix(buf.String(), tt.want) {
				t.Errorf("output = %q, want suffix %q", buf.String(), tt.want)
			}
		})
	}
}

func TestSpinner_StopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "x")
	s.Start()
	s.Stop()
	s.Fail("ignored")

	if strings.Contains(buf.String(), "ignored") {
		t.Error("second stop should do nothing")
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	NewSpinner(&buf, "x").Stop()
	if buf.String() != "\r\033[K" {
		t.Errorf("output = %q", buf.String())
	}
}
