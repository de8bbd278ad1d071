package prefs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// fileDocument is the on-disk layout: native scalars under [values], binary payloads base64
// encoded under [binary].
type fileDocument struct {
	Values map[string]any    `toml:"values"`
	Binary map[string]string `toml:"binary"`
}

// FileStore persists preferences in a TOML file, rewriting it on every Set.
type FileStore struct {
	path   string
	values map[string]Value
}

// OpenFile loads the preferences at path. A missing or empty file yields an empty store.
func OpenFile(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("prefs path is required")
	}
	fs := &FileStore{path: path, values: map[string]Value{}}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fs, nil
		}
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if len(content) == 0 {
		return fs, nil
	}

	var doc fileDocument
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode prefs toml: %w", err)
	}
	for key, raw := range doc.Values {
		switch v := raw.(type) {
		case string:
			fs.values[key] = StringValue(v)
		case int64:
			fs.values[key] = IntValue(v)
		case bool:
			fs.values[key] = BoolValue(v)
		default:
			return nil, fmt.Errorf("decode prefs %q: unsupported value type %T", key, raw)
		}
	}
	for key, encoded := range doc.Binary {
		payload, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode prefs %q: %w", key, err)
		}
		fs.values[key] = BytesValue(payload)
	}
	return fs, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Get returns the value stored at key.
func (f *FileStore) Get(key string) (Value, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Set stores v at key and rewrites the file. Setting an unchanged value skips the write.
func (f *FileStore) Set(key string, v Value) error {
	if v.kind == 0 {
		return fmt.Errorf("set prefs %q: empty value", key)
	}
	if prev, ok := f.values[key]; ok && prev.Equal(v) {
		return nil
	}
	prev, had := f.values[key]
	f.values[key] = v
	if err := f.flush(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (f *FileStore) Keys() []string {
	return slices.Sorted(maps.Keys(f.values))
}

// flush writes the document to a temp file and renames it over the old one.
func (f *FileStore) flush() error {
	doc := fileDocument{Values: map[string]any{}, Binary: map[string]string{}}
	for key, v := range f.values {
		switch v.kind {
		case KindString:
			doc.Values[key] = v.s
		case KindInt:
			doc.Values[key] = v.i
		case KindBool:
			doc.Values[key] = v.b
		case KindBytes:
			doc.Binary[key] = base64.StdEncoding.EncodeToString(v.raw)
		}
	}
	encoded, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode prefs toml: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create prefs temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}
