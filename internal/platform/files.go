package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// AudioExtension is the extension of files produced by the download engine.
// Intermediate files (.part, .ytdl, .webm) never match it, so in-progress
// downloads are excluded from directory scans.
const AudioExtension = ".mp3"

// GetHomeDownloadsDir returns the user's Downloads directory
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, "Downloads"), nil
}

// CreateDirectoryIfNotExists creates the directory (and parents) if missing
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// ListAudioFiles returns the set of audio filenames currently in dir.
// A missing directory yields an empty set, not an error.
func ListAudioFiles(dir string) (map[string]struct{}, error) {
	files := make(map[string]struct{})

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return files, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), AudioExtension) {
			continue
		}
		files[name] = struct{}{}
	}

	return files, nil
}

// FindNewAudioFile locates the audio file a finished download produced: a
// file present now but absent from the before set. When the engine overwrote
// an existing file the diff is empty, so it falls back to the newest audio
// file modified after since. Returns false if nothing qualifies.
func FindNewAudioFile(dir string, before map[string]struct{}, since time.Time) (string, bool) {
	after, err := ListAudioFiles(dir)
	if err != nil {
		return "", false
	}

	for name := range after {
		if _, existed := before[name]; !existed {
			return filepath.Join(dir, name), true
		}
	}

	// Overwrite case: newest audio file touched since the download started
	var newestName string
	var newestTime time.Time
	for name := range after {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		modTime := info.ModTime()
		if modTime.Before(since) {
			continue
		}
		if newestName == "" || modTime.After(newestTime) {
			newestName = name
			newestTime = modTime
		}
	}

	if newestName == "" {
		return "", false
	}
	return filepath.Join(dir, newestName), true
}
