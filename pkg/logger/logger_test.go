package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestMaskAuthorization(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"Bearer abcdef123456": "Bearer ********3456",
		"bearer abc":          "Bearer ***",
		"rawtoken":            "****oken",
	}
	for in, want := range cases {
		if got := MaskAuthorization(in); got != want {
			t.Fatalf("MaskAuthorization(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewSelectsConfigByEnv(t *testing.T) {
	prod, err := New("production")
	if err != nil {
		t.Fatalf("production logger: %v", err)
	}
	if prod.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("production logger should not log debug")
	}

	dev, err := New("development")
	if err != nil {
		t.Fatalf("development logger: %v", err)
	}
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("development logger should log debug")
	}
}
