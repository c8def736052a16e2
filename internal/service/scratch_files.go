package service

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// ScratchFiles owns the temporary files of one request. Release deletes each
// tracked path exactly once; later calls are no-ops.
type ScratchFiles struct {
	mu       sync.Mutex
	paths    []string
	released bool
	log      zerolog.Logger
}

func NewScratchFiles(log zerolog.Logger) *ScratchFiles {
	return &ScratchFiles{log: log}
}

// Add tracks path for deletion. Paths added after Release are removed immediately.
func (s *ScratchFiles) Add(path string) {
	if path == "" {
		return
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		s.remove(path)
		return
	}
	s.paths = append(s.paths, path)
	s.mu.Unlock()
}

// Len returns the number of tracked paths.
func (s *ScratchFiles) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

// Release deletes every tracked file and returns how many were removed.
func (s *ScratchFiles) Release() int {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return 0
	}
	s.released = true
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()

	removed := 0
	for _, p := range paths {
		if s.remove(p) {
			removed++
		}
	}
	s.log.Debug().Int("files", removed).Msg("Scratch files released")
	return removed
}

func (s *ScratchFiles) remove(path string) bool {
	if err := os.Remove(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", path).Msg("Failed to remove scratch file")
		}
		return false
	}
	return true
}
