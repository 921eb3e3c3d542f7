package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/netbeacon/azvnet/utils"
)

// DefaultPath is where the fetch command writes the snapshot unless configured otherwise.
const DefaultPath = "environments/environment_data.json"

// Load reads the snapshot at path. A missing file and a file that does not parse both yield an
// empty snapshot; the dashboard must render before the first fetch and with a damaged file.
func Load(path string) *Snapshot {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			utils.WithFields(map[string]interface{}{"path": path}).Errorf("reading snapshot: %s", err)
		}
		return Empty()
	}

	snap, err := Decode(b)
	if err != nil {
		utils.WithFields(map[string]interface{}{"path": path}).Errorf("decoding snapshot: %s", err)
		return Empty()
	}
	return snap
}

// Decode parses a snapshot document.
func Decode(b []byte) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := json.Unmarshal(b, snap); err != nil {
		return nil, err
	}
	snap.normalize()
	return snap, nil
}

// Encode renders the snapshot with four space indentation, the format written to disk.
func Encode(snap *Snapshot) ([]byte, error) {
	snap.normalize()
	return json.MarshalIndent(snap, "", "    ")
}

// Write replaces the file at path with the snapshot. The document is written to a temporary file in
// the same directory and renamed over the target so readers see either the old or the new file.
func Write(path string, snap *Snapshot) error {
	b, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
