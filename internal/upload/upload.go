// Package upload validates incoming audio files and keeps them on disk until
// they are transcribed.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AllowedExtensions lists accepted audio suffixes, without the dot.
var AllowedExtensions = []string{"mp3", "wav", "m4a", "webm", "ogg", "flac"}

var (
	ErrNoFile           = errors.New("no audio file provided")
	ErrEmptyFilename    = errors.New("no file selected")
	ErrEmptyFile        = errors.New("uploaded file is empty")
	ErrInvalidExtension = fmt.Errorf("invalid file type; allowed: %s", strings.Join(AllowedExtensions, ", "))
)

// Validate checks the client-supplied file name. Only the final dot-suffix
// counts and case is ignored.
func Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyFilename
	}
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ErrInvalidExtension
	}
	ext := strings.ToLower(name[i+1:])
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return ErrInvalidExtension
}

var unsafeChars = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
	"\x00", "",
)

// Sanitize reduces a client file name to a safe single path element.
func Sanitize(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.Replace(name)
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "audio"
	}
	return name
}

// DiskStore saves uploads under a single directory as "{uuid}_{name}".
type DiskStore struct {
	dir string
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save copies r to a new file and returns its reference. A partially
// written file is removed.
func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	ref := filepath.Join(s.dir, uuid.NewString()+"_"+Sanitize(name))

	f, err := os.OpenFile(ref, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", ref, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(ref)
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(ref)
		return "", fmt.Errorf("closing upload: %w", err)
	}
	return ref, nil
}

// Size returns the stored size of ref in bytes.
func (s *DiskStore) Size(ref string) (int64, error) {
	fi, err := os.Stat(ref)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
