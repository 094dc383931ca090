package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage key names. These match the browser localStorage keys used by the
// web client; other Edupi clients expect to find credentials under exactly
// these names.
const (
	KeyAdminToken   = "adminToken"
	KeyAdminData    = "adminData"
	KeyStudentToken = "studentToken"
	KeyStudentData  = "studentData"
)

const storageFileName = "storage.json"

// Keystore persists credential records as a flat string map in
// <data-dir>/storage.json. It is the only writer of the four credential
// keys; all reads degrade to the empty string on missing or corrupt state.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore rooted at dataDir.
func NewKeystore(dataDir string) *Keystore {
	return &Keystore{path: filepath.Join(dataDir, storageFileName)}
}

// Get returns the value for key, or "" if the key is absent or the
// storage file is unreadable.
func (k *Keystore) Get(key string) string {
	m, err := k.read()
	if err != nil {
		return ""
	}
	return m[key]
}

// Set writes a single key. The storage file is created on first use.
func (k *Keystore) Set(key, value string) error {
	m, err := k.read()
	if err != nil {
		m = map[string]string{}
	}
	m[key] = value
	return k.write(m)
}

// SetAll writes several keys in one operation.
func (k *Keystore) SetAll(values map[string]string) error {
	m, err := k.read()
	if err != nil {
		m = map[string]string{}
	}
	for key, value := range values {
		m[key] = value
	}
	return k.write(m)
}

// Delete removes the given keys. Missing keys are not an error.
func (k *Keystore) Delete(keys ...string) error {
	m, err := k.read()
	if err != nil {
		return nil
	}
	for _, key := range keys {
		delete(m, key)
	}
	return k.write(m)
}

// Clear removes all four credential keys in a single write. Idempotent.
func (k *Keystore) Clear() error {
	return k.Delete(KeyAdminToken, KeyAdminData, KeyStudentToken, KeyStudentData)
}

func (k *Keystore) read() (map[string]string, error) {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

func (k *Keystore) write(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(k.path), 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}
	if err := os.WriteFile(k.path, data, 0600); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}
