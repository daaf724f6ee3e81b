package sysutil

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel_SetsGlobal(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	for in, want := range map[string]zerolog.Level{
		"debug":     zerolog.DebugLevel,
		"  DeBuG  ": zerolog.DebugLevel,
		"":          zerolog.InfoLevel,
		"info":      zerolog.InfoLevel,
		"warning":   zerolog.WarnLevel,
		"warn":      zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"fatal":     zerolog.FatalLevel,
		"panic":     zerolog.PanicLevel,
		"chatty":    zerolog.InfoLevel,
	} {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
		SetLogLevel(in)
		if got := zerolog.GlobalLevel(); got != want {
			t.Errorf("after SetLogLevel(%q) global = %v, want %v", in, got, want)
		}
	}
}

func TestIsTruthy_Table(t *testing.T) {
	for v, want := range map[string]bool{
		"1": true, "true": true, "TRUE": true, " yes ": true, "Y": true, "on": true,
		"": false, "0": false, "false": false, "no": false, "off": false, "n": false, "  ": false, "maybe": false,
	} {
		if got := IsTruthy(v); got != want {
			t.Errorf("IsTruthy(%q) = %v", v, got)
		}
	}
}

func TestEnvTruthy(t *testing.T) {
	t.Setenv("SEED_DEMO", "on")
	if !EnvTruthy("SEED_DEMO") {
		t.Fatal("SEED_DEMO=on should be truthy")
	}
	t.Setenv("SEED_DEMO", "")
	if EnvTruthy("SEED_DEMO") {
		t.Fatal("empty SEED_DEMO should be falsy")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"none", nil, ""},
		{"only blanks", []string{" ", "\t", "\n"}, ""},
		{"winner kept verbatim", []string{"   ", "  data/app.db  ", "fallback"}, "  data/app.db  "},
		{"first wins", []string{"postgres://x", "data/app.db"}, "postgres://x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstNonEmpty(tt.in...); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
