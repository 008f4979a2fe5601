package load

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/daogen/compiler/gen"
	"github.com/syssam/daogen/schema"
)

// SnapshotFile is the name of the snapshot stored in the target directory.
const SnapshotFile = ".daogen.snapshot"

// snapshotVersion is bumped when the generated code changes for an
// unchanged schema.
const snapshotVersion = 1

// Snapshot records the input of a generation run: the schema definition and
// the settings that affect the generated code. Comparing two snapshots tells
// whether the output would change.
type Snapshot struct {
	Version     int     `msgpack:"version"`
	Package     string  `msgpack:"package"`
	Header      string  `msgpack:"header"`
	SchemaConst bool    `msgpack:"schema_const"`
	Sort        bool    `msgpack:"sort"`
	Schema      *Schema `msgpack:"schema"`
}

// NewSnapshot returns the snapshot of generating s with cfg.
func NewSnapshot(s *schema.Schema, cfg *gen.Config) *Snapshot {
	return &Snapshot{
		Version:     snapshotVersion,
		Package:     cfg.Package,
		Header:      cfg.Header,
		SchemaConst: cfg.SchemaConst,
		Sort:        cfg.Sort,
		Schema:      FromSchema(s),
	}
}

// Fingerprint returns the hex SHA-256 of the encoded snapshot.
func (s *Snapshot) Fingerprint() (string, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("load: encoding snapshot: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Equal reports if both snapshots produce the same code.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	a, err := s.Fingerprint()
	if err != nil {
		return false
	}
	b, err := o.Fingerprint()
	return err == nil && a == b
}

// Changed returns the names of the tables added, removed or modified since
// prev, in the order of s followed by the removed ones.
func (s *Snapshot) Changed(prev *Snapshot) []string {
	before := make(map[string][]byte)
	if prev != nil && prev.Schema != nil {
		for _, t := range prev.Schema.Tables {
			b, _ := msgpack.Marshal(t)
			before[t.Name] = b
		}
	}
	var changed []string
	seen := make(map[string]bool)
	for _, t := range s.Schema.Tables {
		seen[t.Name] = true
		b, _ := msgpack.Marshal(t)
		if old, ok := before[t.Name]; !ok || !slices.Equal(old, b) {
			changed = append(changed, t.Name)
		}
	}
	if prev != nil && prev.Schema != nil {
		for _, t := range prev.Schema.Tables {
			if !seen[t.Name] {
				changed = append(changed, t.Name)
			}
		}
	}
	return changed
}

// ReadSnapshot reads the snapshot stored in dir. It returns an error
// matching os.ErrNotExist if there is none.
func ReadSnapshot(dir string) (*Snapshot, error) {
	b, err := os.ReadFile(filepath.Join(dir, SnapshotFile))
	if err != nil {
		return nil, err
	}
	s := &Snapshot{}
	if err := msgpack.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("load: decoding snapshot: %w", err)
	}
	return s, nil
}

// WriteSnapshot stores s in dir.
func WriteSnapshot(dir string, s *Snapshot) error {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("load: encoding snapshot: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, SnapshotFile), b, 0o644)
}

// Unchanged reports if dir holds a snapshot equal to s. A missing snapshot
// is reported as changed.
func Unchanged(dir string, s *Snapshot) (bool, error) {
	prev, err := ReadSnapshot(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.Equal(prev), nil
}

// SnapshotHook returns a hook storing s in the target directory once the
// wrapped generation succeeded.
func SnapshotHook(s *Snapshot) gen.Hook {
	return func(next gen.Generator) gen.Generator {
		return gen.GenerateFunc(func(g *gen.Graph) error {
			if err := next.Generate(g); err != nil {
				return err
			}
			return WriteSnapshot(g.Target, s)
		})
	}
}
