package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlund/file-format/core/format"
)

// Test helper functions

func createTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	runErr := fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(out), runErr
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

// Tests for DetectCmd

func TestDetectCmd_Run(t *testing.T) {
	tests := []struct {
		name       string
		content    []byte
		wantFormat string
	}{
		{
			name:       "png image",
			content:    pngHeader,
			wantFormat: format.PNG.Name(),
		},
		{
			name:       "plain text",
			content:    []byte("hello, world\n"),
			wantFormat: format.PlainText.Name(),
		},
		{
			name:       "empty file",
			content:    nil,
			wantFormat: format.Empty.Name(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			testFile := createTestFile(t, tempDir, "input", tt.content)

			cmd := &DetectCmd{Paths: []string{testFile}, JSON: true}
			out, err := captureStdout(t, cmd.Run)
			if err != nil {
				t.Fatalf("DetectCmd.Run() error = %v", err)
			}

			var report detectReport
			if err := json.Unmarshal([]byte(out), &report); err != nil {
				t.Fatalf("failed to decode output %q: %v", out, err)
			}
			if report.Format != tt.wantFormat {
				t.Errorf("format = %q, want %q", report.Format, tt.wantFormat)
			}
			if report.Path != testFile {
				t.Errorf("path = %q, want %q", report.Path, testFile)
			}
		})
	}
}

func TestDetectCmd_Hash(t *testing.T) {
	tempDir := t.TempDir()
	testFile := createTestFile(t, tempDir, "input.txt", []byte("stable content"))

	cmd := &DetectCmd{Paths: []string{testFile}, JSON: true, Hash: true}
	out, err := captureStdout(t, cmd.Run)
	if err != nil {
		t.Fatalf("DetectCmd.Run() error = %v", err)
	}

	var report detectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if len(report.Hash) != 64 {
		t.Errorf("hash = %q, want 64 hex characters", report.Hash)
	}

	// Identical content must produce an identical digest.
	otherFile := createTestFile(t, tempDir, "copy.txt", []byte("stable content"))
	cmd = &DetectCmd{Paths: []string{otherFile}, JSON: true, Hash: true}
	out, err = captureStdout(t, cmd.Run)
	if err != nil {
		t.Fatalf("DetectCmd.Run() error = %v", err)
	}
	var other detectReport
	if err := json.Unmarshal([]byte(out), &other); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if other.Hash != report.Hash {
		t.Errorf("digests differ for identical content: %q vs %q", other.Hash, report.Hash)
	}
}

func TestDetectCmd_Inner(t *testing.T) {
	tempDir := t.TempDir()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(pngHeader); err != nil {
		t.Fatalf("failed to write gzip content: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	testFile := createTestFile(t, tempDir, "image.png.gz", buf.Bytes())

	cmd := &DetectCmd{Paths: []string{testFile}, JSON: true, Inner: true}
	out, err := captureStdout(t, cmd.Run)
	if err != nil {
		t.Fatalf("DetectCmd.Run() error = %v", err)
	}

	var report detectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if report.Format != format.Gzip.Name() {
		t.Errorf("outer format = %q, want %q", report.Format, format.Gzip.Name())
	}
	if report.Inner != format.PNG.Name() {
		t.Errorf("inner format = %q, want %q", report.Inner, format.PNG.Name())
	}
}

func TestDetectCmd_InnerNotCompressed(t *testing.T) {
	tempDir := t.TempDir()
	testFile := createTestFile(t, tempDir, "plain.txt", []byte("not compressed"))

	cmd := &DetectCmd{Paths: []string{testFile}, JSON: true, Inner: true}
	out, err := captureStdout(t, cmd.Run)
	if err != nil {
		t.Fatalf("DetectCmd.Run() error = %v", err)
	}

	var report detectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if report.Inner != "" {
		t.Errorf("inner format = %q, want empty", report.Inner)
	}
}

func TestDetectCmd_MissingFile(t *testing.T) {
	cmd := &DetectCmd{Paths: []string{filepath.Join(t.TempDir(), "missing")}}
	if _, err := captureStdout(t, cmd.Run); err == nil {
		t.Error("expected error for missing file")
	}
}

// Tests for ScanCmd

func TestScanCmd_Run(t *testing.T) {
	tempDir := t.TempDir()
	createTestFile(t, tempDir, "a.png", pngHeader)
	createTestFile(t, tempDir, "b.txt", []byte("text file\n"))

	cmd := &ScanCmd{Root: tempDir, JSON: true}
	out, err := captureStdout(t, cmd.Run)
	if err != nil {
		t.Fatalf("ScanCmd.Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d result lines, want 2: %q", len(lines), out)
	}
	formats := make(map[string]string)
	for _, line := range lines {
		var res struct {
			Path string `json:"path"`
			Name string `json:"format"`
		}
		if err := json.Unmarshal([]byte(line), &res); err != nil {
			t.Fatalf("failed to decode line %q: %v", line, err)
		}
		formats[filepath.Base(res.Path)] = res.Name
	}
	if formats["a.png"] != format.PNG.Name() {
		t.Errorf("a.png = %q, want PNG", formats["a.png"])
	}
	if formats["b.txt"] != format.PlainText.Name() {
		t.Errorf("b.txt = %q, want plain text", formats["b.txt"])
	}
}

func TestScanCmd_Database(t *testing.T) {
	tempDir := t.TempDir()
	createTestFile(t, tempDir, "a.png", pngHeader)
	dbPath := filepath.Join(t.TempDir(), "inventory.db")

	cmd := &ScanCmd{Root: tempDir, DB: dbPath}
	if _, err := captureStdout(t, cmd.Run); err != nil {
		t.Fatalf("ScanCmd.Run() error = %v", err)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("inventory database not created: %v", err)
	}
}

// Tests for FormatsCmd

func TestFormatsCmd_Run(t *testing.T) {
	cmd := &FormatsCmd{JSON: true}
	out, err := captureStdout(t, cmd.Run)
	if err != nil {
		t.Fatalf("FormatsCmd.Run() error = %v", err)
	}

	var rows []formatRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if len(rows) != format.Count() {
		t.Errorf("got %d formats, want %d", len(rows), format.Count())
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Name > rows[i].Name {
			t.Errorf("formats not sorted: %q before %q", rows[i-1].Name, rows[i].Name)
			break
		}
	}
}

func TestFormatsCmd_KindFilter(t *testing.T) {
	cmd := &FormatsCmd{JSON: true, Kind: format.PNG.Kind().String()}
	out, err := captureStdout(t, cmd.Run)
	if err != nil {
		t.Fatalf("FormatsCmd.Run() error = %v", err)
	}

	var rows []formatRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("expected at least one format for the image kind")
	}
	want := format.PNG.Kind().String()
	for _, r := range rows {
		if r.Kind != want {
			t.Errorf("format %q has kind %q, want %q", r.Name, r.Kind, want)
		}
	}
}

// Tests for VersionCmd

func TestVersionCmd_Run(t *testing.T) {
	cmd := &VersionCmd{}
	out, err := captureStdout(t, cmd.Run)
	if err != nil {
		t.Fatalf("VersionCmd.Run() error = %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("output %q does not contain version %q", out, version)
	}
}
