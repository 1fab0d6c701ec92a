package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSong = `bpm: 150
rowsperbeat: 4
instruments:
  - {slot: 3, name: lead, waveform: sawtooth, gain: 0.5}
tracks:
  - lines: ["C-4 FF 03", "---", "E-4", "OFF"]
`

func TestResolveLogLevel(t *testing.T) {
	for name, expected := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		level, err := ResolveLogLevel(name)
		if err != nil || level != expected {
			t.Errorf("ResolveLogLevel(%q) = %v, %v; expected %v", name, level, err, expected)
		}
	}
	if _, err := ResolveLogLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestRenderAndInfo(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "test.yml")
	if err := os.WriteFile(song, []byte(testSong), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	rootCmd.SetArgs([]string{"render", "--pcm", "--rate", "1000", "-o", out, song})
	if err := Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	wav, err := os.ReadFile(filepath.Join(out, "test.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(wav, []byte("RIFF")) {
		t.Errorf("output does not start with a RIFF header")
	}

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"info", dir})
	if err := Execute(); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"150 bpm", "1 tracks, 4 rows", "Sawtooth"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("info output %q does not contain %q", stdout.String(), want)
		}
	}
}
