package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogDisabled(t *testing.T) {
	SetOutput(nil)
	defer SetOutput(nil)

	Log("dropped %d", 1)
	if Enabled() {
		t.Error("SetOutput(nil) should disable logging")
	}
}

func TestSetOutputAndEnterExit(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	Log("loaded %s", "model_coefficients.csv")
	LogEnterExit("article load")()

	out := buf.String()
	for _, want := range []string{"[HV_DEBUG]", "loaded model_coefficients.csv", "-> article load", "<- article load"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
