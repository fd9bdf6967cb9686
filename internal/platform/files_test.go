package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCreateSafeFilename(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"strips invalid characters", "a:b/c*d", "abcd"},
		{"replaces spaces", "hello world", "hello_world"},
		{"strips every invalid character", `<>:"/\|?*`, ""},
		{"keeps unicode", "Привет мир", "Привет_мир"},
		{"mixed", `AC/DC - "Back In Black"?`, "ACDC_-_Back_In_Black"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CreateSafeFilename(tt.title)
			if result != tt.expected {
				t.Errorf("CreateSafeFilename(%q) = %q, expected %q", tt.title, result, tt.expected)
			}
		})
	}
}

func TestCreateSafeFilename_Length(t *testing.T) {
	inputs := []string{
		strings.Repeat("a", 500),
		strings.Repeat("я", 250),
		strings.Repeat("a b", 80),
		strings.Repeat("?", 300) + "tail",
	}

	for _, input := range inputs {
		result := CreateSafeFilename(input)
		if n := utf8.RuneCountInString(result); n > MaxFilenameLength {
			t.Errorf("expected at most %d characters, got %d", MaxFilenameLength, n)
		}
		if !utf8.ValidString(result) {
			t.Errorf("result is not valid UTF-8: %q", result)
		}
	}

	if got := CreateSafeFilename(strings.Repeat("a", 150)); got != strings.Repeat("a", 100) {
		t.Errorf("expected truncation to 100 characters, got %d", len(got))
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestCreateDirectoryIfNotExists_BelowFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if err := CreateDirectoryIfNotExists(filePath); err != nil {
		t.Errorf("expected existing file to be left alone, got %v", err)
	}
	if err := CreateDirectoryIfNotExists(filepath.Join(filePath, "child")); err == nil {
		t.Error("expected error for a path below a regular file")
	}
}

func TestValidateDirectory_CreatesNestedPath(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "a", "b", "c")

	if !ValidateDirectory(testDir) {
		t.Fatal("expected nested directory to be created and valid")
	}
	info, err := os.Stat(testDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory was not created: %v", err)
	}

	// Second call is idempotent
	if !ValidateDirectory(testDir) {
		t.Fatal("expected second call to succeed")
	}
	entries, err := os.ReadDir(testDir)
	if err != nil {
		t.Fatalf("failed to read directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected directory to stay empty, found %d entries", len(entries))
	}
}

func TestValidateDirectory_PathIsFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if ValidateDirectory(filePath) {
		t.Error("expected a regular file to be rejected")
	}
	if ValidateDirectory(filepath.Join(filePath, "child")) {
		t.Error("expected a path below a regular file to be rejected")
	}
	if ValidateDirectory("") {
		t.Error("expected empty path to be rejected")
	}
}

func TestValidateDirectory_NoWritePermission(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("write permission checks are bypassed for root")
	}

	dir := filepath.Join(t.TempDir(), "readonly")
	if err := os.Mkdir(dir, 0555); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	if ValidateDirectory(dir) {
		t.Error("expected read-only directory to be rejected")
	}
}

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "https://youtu.be/a\n\n   https://youtu.be/b  \r\n\t\n# not a comment\nhttps://youtu.be/c"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"https://youtu.be/a", "https://youtu.be/b", "# not a comment", "https://youtu.be/c"}
	if len(urls) != len(expected) {
		t.Fatalf("expected %d urls, got %d: %v", len(expected), len(urls), urls)
	}
	for i := range expected {
		if urls[i] != expected[i] {
			t.Errorf("url %d: expected %q, got %q", i, expected[i], urls[i])
		}
	}
}

func TestReadURLsFromFile_Missing(t *testing.T) {
	_, err := ReadURLsFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLockDirectory(t *testing.T) {
	dir := t.TempDir()

	first, err := LockDirectory(dir)
	if err != nil {
		t.Fatalf("failed to lock directory: %v", err)
	}

	if _, err := LockDirectory(dir); !errors.Is(err, ErrDirectoryLocked) {
		t.Fatalf("expected ErrDirectoryLocked, got %v", err)
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("failed to unlock: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, LockFileName)); !os.IsNotExist(err) {
		t.Errorf("expected lock file to be removed, got %v", err)
	}

	second, err := LockDirectory(dir)
	if err != nil {
		t.Fatalf("expected lock to be available again: %v", err)
	}
	second.Unlock()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

var (
	mp3Header  = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...)
	jpegHeader = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...)
)

func TestFindOutputFile_PrefersAudio(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "My_Song.jpg"), jpegHeader)
	writeFile(t, filepath.Join(dir, "My_Song.mp3"), mp3Header)
	writeFile(t, filepath.Join(dir, "My_Song.webm.part"), []byte("partial"))

	out, err := FindOutputFile(dir, "My_Song")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(out.Path) != "My_Song.mp3" {
		t.Errorf("expected My_Song.mp3, got %s", out.Path)
	}
	if out.Kind != MediaKindAudio {
		t.Errorf("expected audio kind, got %s", out.Kind)
	}
	if out.MIME != "audio/mpeg" {
		t.Errorf("expected audio/mpeg, got %s", out.MIME)
	}
}

func TestFindOutputFile_SimilarName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "-test_video.mp3"), mp3Header)

	out, err := FindOutputFile(dir, "test_video")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(out.Path) != "-test_video.mp3" {
		t.Errorf("expected similar file, got %s", out.Path)
	}
}

func TestFindOutputFile_NotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "completely_unrelated.mp3"), mp3Header)
	writeFile(t, filepath.Join(dir, "wanted.mp3.part"), mp3Header)

	if _, err := FindOutputFile(dir, "wanted"); err == nil {
		t.Error("expected error when only partial files exist")
	}
	if _, err := FindOutputFile(dir, ""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestIsSimilarFileName(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"video", "video", true},
		{"-video", "video", true},
		{"video_", "video", true},
		{"video_title_long", "video_title", true},
		{"abc", "xyz", false},
		{"", "video", false},
		{"video_with_a_very_long_suffix_added", "video", false},
	}

	for _, test := range tests {
		if got := isSimilarFileName(test.a, test.b); got != test.expected {
			t.Errorf("isSimilarFileName(%q, %q) = %v, expected %v", test.a, test.b, got, test.expected)
		}
	}
}
