package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

// DiskStore is a best-effort persistent key-value store of base64 audio
// payloads. Entries live under a versioned directory; bumping the version
// re-roots the store so all prior entries become unreachable. Every failure
// is logged and swallowed: caching is an optimization, never a correctness
// requirement.
type DiskStore struct {
	root    string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewDiskStore creates a store rooted at baseDir/v<version>. Construction
// never fails; an unusable directory simply yields a store that misses on
// every read.
func NewDiskStore(baseDir string, version int) *DiskStore {
	root := filepath.Join(baseDir, fmt.Sprintf("v%d", version))
	if err := os.MkdirAll(root, 0o755); err != nil {
		log.Warn("audio cache directory unavailable", "path", root, "error", err)
	}

	// Errors here only occur for invalid options.
	encoder, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ := zstd.NewReader(nil)

	return &DiskStore{root: root, encoder: encoder, decoder: decoder}
}

// Get retrieves a base64 payload. It never fails: any storage-layer problem
// reports a miss.
func (s *DiskStore) Get(key string) (string, bool) {
	path := s.entryPath(key)
	compressed, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug("audio cache read failed", "key", key, "error", err)
		}
		return "", false
	}

	data, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		// Corrupted entry; drop it so the next write replaces it cleanly.
		log.Debug("audio cache entry corrupted", "key", key, "error", err)
		_ = os.Remove(path)
		return "", false
	}
	return string(data), true
}

// Put stores a base64 payload. Best-effort: storage failures are logged and
// ignored.
func (s *DiskStore) Put(key, payload string) {
	compressed := s.encoder.EncodeAll([]byte(payload), nil)

	tmp := s.entryPath(key) + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		log.Debug("audio cache write failed", "key", key, "error", err)
		return
	}
	if err := os.Rename(tmp, s.entryPath(key)); err != nil {
		log.Debug("audio cache rename failed", "key", key, "error", err)
		_ = os.Remove(tmp)
	}
}

// Purge removes the entire versioned namespace.
func (s *DiskStore) Purge() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to purge audio cache: %w", err)
	}
	return os.MkdirAll(s.root, 0o755)
}

// Path returns the store's root directory.
func (s *DiskStore) Path() string {
	return s.root
}

func (s *DiskStore) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.root, hex.EncodeToString(sum[:16])+".zst")
}
