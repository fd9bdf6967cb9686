package platform

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/h2non/filetype"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename constraints
const (
	InvalidFilenameChars = `<>:"/\|?*`
	MaxFilenameLength    = 100
	MaxNameDifference    = 10
)

// LockFileName is created inside the output directory while a run holds it
const LockFileName = ".yt-audio.lock"

// File extensions to skip
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp", LockFileName}
)

// maxURLLineLength bounds a single line of a URL list file
const maxURLLineLength = 1024 * 1024

// ErrDirectoryLocked is returned when another process holds the output directory
var ErrDirectoryLocked = errors.New("output directory is in use by another process")

// MediaKind classifies a file produced by a download
type MediaKind string

const (
	MediaKindAudio   MediaKind = "audio"
	MediaKindImage   MediaKind = "image"
	MediaKindVideo   MediaKind = "video"
	MediaKindUnknown MediaKind = "unknown"
)

// OutputFile describes a file found in the output directory
type OutputFile struct {
	Path string
	Kind MediaKind
	MIME string
}

// CreateSafeFilename removes characters that are invalid in file names,
// replaces spaces with underscores and limits the result to MaxFilenameLength characters.
func CreateSafeFilename(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if strings.ContainsRune(InvalidFilenameChars, r) {
			continue
		}
		if r == ' ' {
			r = '_'
		}
		b.WriteRune(r)
	}

	name := []rune(b.String())
	if len(name) > MaxFilenameLength {
		name = name[:MaxFilenameLength]
	}
	return string(name)
}

// CreateDirectoryIfNotExists creates dirPath with any missing parents.
// An existing path is left untouched, whatever its type.
func CreateDirectoryIfNotExists(dirPath string) error {
	_, err := os.Stat(dirPath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to access %s: %w", dirPath, err)
	}
	if err := os.MkdirAll(dirPath, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// ValidateDirectory creates the directory with all missing parents and reports
// whether it is a directory the process can write into. It never returns an error.
func ValidateDirectory(dirPath string) bool {
	if dirPath == "" {
		return false
	}
	if err := CreateDirectoryIfNotExists(dirPath); err != nil {
		return false
	}
	info, err := os.Stat(dirPath)
	if err != nil || !info.IsDir() {
		return false
	}
	return isWritable(dirPath)
}

// isWritable probes write access by creating and removing a temporary file
func isWritable(dirPath string) bool {
	f, err := os.CreateTemp(dirPath, ".yt-audio-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// ReadURLsFromFile reads one URL per line, trimming whitespace and skipping blank lines
func ReadURLsFromFile(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxURLLineLength)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	return urls, nil
}

// DirLock is an advisory lock held on an output directory
type DirLock struct {
	lock *flock.Flock
}

// LockDirectory takes a non-blocking advisory lock on dirPath. It returns
// ErrDirectoryLocked if another process already holds it.
func LockDirectory(dirPath string) (*DirLock, error) {
	lock := flock.New(filepath.Join(dirPath, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", dirPath, err)
	}
	if !locked {
		return nil, ErrDirectoryLocked
	}
	return &DirLock{lock: lock}, nil
}

// Unlock releases the lock and removes the lock file
func (l *DirLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.lock.Path(), err)
	}
	if err := os.Remove(l.lock.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// FindOutputFile locates the audio file written for baseName inside dir.
// Files named "<baseName>.<ext>" are preferred; names that differ only by
// a prefix or suffix added by the downloader are accepted as a fallback.
// Audio files win over thumbnails and other media.
func FindOutputFile(dir, baseName string) (*OutputFile, error) {
	if baseName == "" {
		return nil, fmt.Errorf("file name is empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	var fallbackCandidates []string

	for _, entry := range entries {
		if entry.IsDir() || isSkippedFile(entry.Name()) {
			continue
		}

		entryName := entry.Name()
		entryBase := strings.TrimSuffix(entryName, filepath.Ext(entryName))

		if entryBase == baseName {
			candidates = append(candidates, filepath.Join(dir, entryName))
		} else if isSimilarFileName(entryBase, baseName) {
			fallbackCandidates = append(fallbackCandidates, filepath.Join(dir, entryName))
		}
	}

	if len(candidates) == 0 {
		candidates = fallbackCandidates
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("file not found: %s", filepath.Join(dir, baseName))
	}

	sort.Strings(candidates)

	var best *OutputFile
	for _, path := range candidates {
		file := classifyFile(path)
		if best == nil || kindRank(file.Kind) < kindRank(best.Kind) {
			best = file
		}
	}
	return best, nil
}

// classifyFile sniffs the file header to determine its media kind
func classifyFile(path string) *OutputFile {
	out := &OutputFile{Path: path, Kind: MediaKindUnknown}

	kind, err := filetype.MatchFile(path)
	if err != nil || kind == filetype.Unknown {
		return out
	}
	out.MIME = kind.MIME.Value

	switch kind.MIME.Type {
	case "audio":
		out.Kind = MediaKindAudio
	case "image":
		out.Kind = MediaKindImage
	case "video":
		out.Kind = MediaKindVideo
	}
	return out
}

func kindRank(kind MediaKind) int {
	switch kind {
	case MediaKindAudio:
		return 0
	case MediaKindVideo:
		return 1
	case MediaKindUnknown:
		return 2
	default:
		return 3
	}
}

func isSkippedFile(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isSimilarFileName checks if two file names are similar enough to be considered the same file
func isSimilarFileName(name1, name2 string) bool {
	clean1 := strings.TrimSpace(name1)
	clean2 := strings.TrimSpace(name2)

	if clean1 == clean2 {
		return true
	}
	if clean1 == "" || clean2 == "" {
		return false
	}

	// Prefixes and suffixes added by downloaders
	for _, sep := range []string{"-", "_", " "} {
		if clean1 == sep+clean2 || clean1 == clean2+sep {
			return true
		}
	}

	// Truncated names
	if strings.HasPrefix(clean1, clean2) || strings.HasPrefix(clean2, clean1) {
		diff := len(clean1) - len(clean2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}

	return false
}
