package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/typestyle/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return filepath.Join(dir, "typestyle.db")
}

func writeLog(t *testing.T, keys ...string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("extension started\n")
	for _, key := range keys {
		b.WriteString("2024-05-01T09:00:00.000Z - Key pressed: " + key + "\n")
	}
	path := filepath.Join(t.TempDir(), "keys.log")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestImportThenMetricsJSON(t *testing.T) {
	db := testEnv(t)
	path := writeLog(t, "h", "i", "Enter", "h", "e", "l", "l", "o", " ", "w", "o", "r", "l", "d", "Enter")

	out, err := runCLI(t, "import", path, "--db", db)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 15 keystrokes (1 skipped)") {
		t.Fatalf("unexpected import output: %q", out)
	}

	out, err = runCLI(t, "metrics", "--db", db, "--format", "json", "--top", "2")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	var payload struct {
		TotalKeys        int     `json:"total_keys"`
		MessageCount     int     `json:"message_count"`
		AvgMessageLength float64 `json:"avg_message_length"`
		TopKeys          []struct {
			Key   string `json:"key"`
			Count int    `json:"count"`
		} `json:"top_keys"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode metrics: %v\n%s", err, out)
	}
	if payload.TotalKeys != 15 || payload.MessageCount != 2 || payload.AvgMessageLength != 6.5 {
		t.Fatalf("unexpected metrics: %+v", payload)
	}
	if len(payload.TopKeys) != 2 || payload.TopKeys[0].Key != "l" || payload.TopKeys[0].Count != 3 {
		t.Fatalf("unexpected top keys: %+v", payload.TopKeys)
	}
}

func TestMetricsTextOnEmptyLog(t *testing.T) {
	db := testEnv(t)
	out, err := runCLI(t, "metrics", "--db", db)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if !strings.Contains(out, "Favorite key: 'None' (pressed 0 times)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestClassifyTextYAML(t *testing.T) {
	db := testEnv(t)
	out, err := runCLI(t, "classify", "--db", db, "--text", "love!!! awesome!!! yaaaay", "--wpm", "80", "--hour", "10", "--format", "yaml")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(out, "name: slammer") || !strings.Contains(out, "name: energetic typer") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "wpm: 80") {
		t.Fatalf("expected wpm in output:\n%s", out)
	}
}

func TestClassifyEmptyLogIsUndefined(t *testing.T) {
	db := testEnv(t)
	out, err := runCLI(t, "classify", "--db", db)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.HasPrefix(out, "undefined typer: ") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestClassifyConfigLimit(t *testing.T) {
	db := testEnv(t)
	cfgPath := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfgPath, []byte("[classify]\nlimit = 1\nformat = \"json\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := runCLI(t, "classify", "--db", db, "--text", "love!!! awesome!!! yaaaay", "--wpm", "80", "--hour", "10")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var payload classifyOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(payload.Categories) != 1 || payload.Categories[0].Name != "slammer" {
		t.Fatalf("unexpected categories: %+v", payload.Categories)
	}
}

func TestClassifyRejectsBadFlags(t *testing.T) {
	db := testEnv(t)
	if _, err := runCLI(t, "classify", "--db", db, "--source", "html"); err == nil {
		t.Fatalf("expected error for unknown source")
	}
	if _, err := runCLI(t, "classify", "--db", db, "--format", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := runCLI(t, "classify", "--db", db, "--hour", "24"); err == nil {
		t.Fatalf("expected error for hour 24")
	}
	if _, err := runCLI(t, "classify", "--db", db, "--hour=-5"); err == nil {
		t.Fatalf("expected error for negative hour")
	}
}

func TestClearAndLog(t *testing.T) {
	db := testEnv(t)
	path := writeLog(t, "h", "i", "Enter", "y", "o")
	if _, err := runCLI(t, "import", path, "--db", db); err != nil {
		t.Fatalf("import: %v", err)
	}
	out, err := runCLI(t, "log", "--db", db)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out != "hi\nyo\n" {
		t.Fatalf("unexpected log output: %q", out)
	}
	if _, err := runCLI(t, "clear", "--db", db); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out, err = runCLI(t, "log", "--db", db, "--raw")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty log after clear, got %q", out)
	}
}

func TestSessionsText(t *testing.T) {
	db := testEnv(t)
	path := writeLog(t, "a", "b")
	if _, err := runCLI(t, "import", path, "--db", db); err != nil {
		t.Fatalf("import: %v", err)
	}
	out, err := runCLI(t, "sessions", "--db", db)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if !strings.Contains(out, "Session") || !strings.Contains(out, " 2") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("hello big world", 10); got != "hello big\nworld" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestSampleAppendsSession(t *testing.T) {
	db := testEnv(t)
	out, err := runCLI(t, "sample", "--db", db, "--words", "6", "--message-words", "3", "--caps", "0", "--punct", "0", "--seed", "7")
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if !strings.Contains(out, "(6 words) as session") {
		t.Fatalf("unexpected sample output: %q", out)
	}

	out, err = runCLI(t, "log", "--db", db)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two messages, got %q", out)
	}
	for _, line := range lines {
		if len(strings.Fields(line)) != 3 {
			t.Fatalf("expected three words per message, got %q", line)
		}
	}
}

func TestSampleMoodBias(t *testing.T) {
	db := testEnv(t)
	if _, err := runCLI(t, "sample", "--db", db, "--words", "40", "--message-words", "40", "--mood", "positive", "--mood-factor", "50", "--caps", "0", "--punct", "0", "--seed", "3"); err != nil {
		t.Fatalf("sample: %v", err)
	}
	out, err := runCLI(t, "classify", "--db", db, "--source", "keys", "--features", "--format", "json", "--wpm", "40", "--hour", "12")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var payload classifyOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if payload.Features == nil || payload.Features.Sentiment.Comparative <= 0 {
		t.Fatalf("expected positive sentiment, got %+v", payload.Features)
	}
}

func TestSampleRejectsBadMood(t *testing.T) {
	db := testEnv(t)
	if _, err := runCLI(t, "sample", "--db", db, "--mood", "grumpy"); err == nil {
		t.Fatalf("expected error for unknown mood")
	}
}

func TestSampleMoodUsesConfiguredLexicon(t *testing.T) {
	db := testEnv(t)
	dir := t.TempDir()
	lexPath := filepath.Join(dir, "extra.txt")
	if err := os.WriteFile(lexPath, []byte("zorblax\t5\n"), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}
	vocabPath := filepath.Join(dir, "vocab.txt")
	if err := os.WriteFile(vocabPath, []byte("plain\n"), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	cfgPath := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfgPath, []byte(fmt.Sprintf("[classify]\nlexicon = %q\n", lexPath)), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := runCLI(t, "sample", "--db", db, "--words", "1500", "--message-words", "1500", "--vocab", vocabPath,
		"--mood", "positive", "--mood-factor", "100", "--caps", "0", "--punct", "0", "--seed", "11"); err != nil {
		t.Fatalf("sample: %v", err)
	}
	out, err := runCLI(t, "log", "--db", db)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if !strings.Contains(out, "zorblax") {
		t.Fatalf("expected configured lexicon word in sample")
	}
}
