package storage

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"gulfofmexico/interpreter-go/pkg/diag"
)

const fileExt = ".gomv"

// fileEntry is the on-disk record for one key.
type fileEntry struct {
	Confidence int    `cbor:"c"`
	Data       []byte `cbor:"d"`
}

// FileStore writes one file per key under a directory. Keys are hex
// encoded in file names so any binding name is a safe path component.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, diag.New(diag.KindStorage, "cannot create store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+fileExt)
}

func (s *FileStore) Put(key string, confidence int, data []byte) error {
	if prev, ok, err := s.Get(key); err != nil {
		return err
	} else if ok && prev.Confidence > confidence {
		return nil
	}
	raw, err := cbor.Marshal(fileEntry{Confidence: confidence, Data: data})
	if err != nil {
		return &diag.Error{Kind: diag.KindStorage, Message: "cannot encode entry", Cause: err}
	}
	if err := os.WriteFile(s.path(key), raw, 0o644); err != nil {
		return &diag.Error{Kind: diag.KindStorage, Message: "cannot write " + key, Cause: err}
	}
	return nil
}

func (s *FileStore) Get(key string) (Entry, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, &diag.Error{Kind: diag.KindStorage, Message: "cannot read " + key, Cause: err}
	}
	var fe fileEntry
	if err := cbor.Unmarshal(raw, &fe); err != nil {
		return Entry{}, false, &diag.Error{Kind: diag.KindStorage, Message: "corrupt entry for " + key, Cause: err}
	}
	return Entry{Confidence: fe.Confidence, Data: fe.Data}, true, nil
}

func (s *FileStore) Keys() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &diag.Error{Kind: diag.KindStorage, Message: "cannot list store", Cause: err}
	}
	var keys []string
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		decoded, decErr := hex.DecodeString(strings.TrimSuffix(name, fileExt))
		if decErr != nil {
			continue
		}
		keys = append(keys, string(decoded))
	}
	sort.Strings(keys)
	return keys, nil
}
