package qlearn

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tinylib/msgp/msgp"

	"github.com/lox/qjack/internal/deck"
	"github.com/lox/qjack/internal/fileutil"
)

const (
	tableFileMagic   = "qjack-table"
	tableFileVersion = 1
	entryFields      = 7
	maxPrealloc      = 1 << 16
)

// ErrCorruptTable wraps any failure to decode a persisted table.
var ErrCorruptTable = errors.New("corrupt q-table file")

// Metadata travels with a persisted table so training can resume where it
// stopped. It is not part of table equality.
type Metadata struct {
	Session  string
	Episodes int64
	Epsilon  float64
	SavedAt  time.Time
}

// WriteTable encodes the table as a msgpack blob:
//
//	[magic, version, session, episodes, epsilon, saved_at_unix_nano,
//	 [[dealer_up, total, soft_aces, hand_size, bet, action, value], ...]]
//
// Entries are written in Key order so identical tables encode identically.
func WriteTable(w io.Writer, t *QTable, meta Metadata) error {
	mw := msgp.NewWriter(w)
	if err := writeHeader(mw, meta); err != nil {
		return err
	}

	keys := t.Keys()
	if err := mw.WriteArrayHeader(uint32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := writeEntry(mw, k, t.values[k]); err != nil {
			return err
		}
	}
	return mw.Flush()
}

func writeHeader(mw *msgp.Writer, meta Metadata) error {
	var savedAt int64
	if !meta.SavedAt.IsZero() {
		savedAt = meta.SavedAt.UnixNano()
	}
	if err := mw.WriteArrayHeader(7); err != nil {
		return err
	}
	if err := mw.WriteString(tableFileMagic); err != nil {
		return err
	}
	if err := mw.WriteInt(tableFileVersion); err != nil {
		return err
	}
	if err := mw.WriteString(meta.Session); err != nil {
		return err
	}
	if err := mw.WriteInt64(meta.Episodes); err != nil {
		return err
	}
	if err := mw.WriteFloat64(meta.Epsilon); err != nil {
		return err
	}
	return mw.WriteInt64(savedAt)
}

func writeEntry(mw *msgp.Writer, k Key, v float64) error {
	if err := mw.WriteArrayHeader(entryFields); err != nil {
		return err
	}
	if err := mw.WriteInt(int(k.State.DealerUp)); err != nil {
		return err
	}
	if err := mw.WriteInt(k.State.PlayerTotal); err != nil {
		return err
	}
	if err := mw.WriteInt(k.State.SoftAces); err != nil {
		return err
	}
	if err := mw.WriteInt(k.State.HandSize); err != nil {
		return err
	}
	if err := mw.WriteBool(k.State.Bet); err != nil {
		return err
	}
	if err := mw.WriteUint8(uint8(k.Action)); err != nil {
		return err
	}
	return mw.WriteFloat64(v)
}

// ReadTable decodes a blob produced by WriteTable. Every decode failure is
// reported as ErrCorruptTable.
func ReadTable(r io.Reader) (*QTable, Metadata, error) {
	mr := msgp.NewReader(r)

	meta, err := readHeader(mr)
	if err != nil {
		return nil, Metadata{}, corrupt(err)
	}

	n, err := mr.ReadArrayHeader()
	if err != nil {
		return nil, Metadata{}, corrupt(err)
	}
	table := &QTable{values: make(map[Key]float64, min(int(n), maxPrealloc))}
	for i := uint32(0); i < n; i++ {
		k, v, err := readEntry(mr)
		if err != nil {
			return nil, Metadata{}, corrupt(fmt.Errorf("entry %d: %w", i, err))
		}
		table.values[k] = v
	}
	return table, meta, nil
}

func readHeader(mr *msgp.Reader) (Metadata, error) {
	var meta Metadata
	fields, err := mr.ReadArrayHeader()
	if err != nil {
		return meta, err
	}
	if fields != 7 {
		return meta, fmt.Errorf("unexpected header length %d", fields)
	}
	magic, err := mr.ReadString()
	if err != nil {
		return meta, err
	}
	if magic != tableFileMagic {
		return meta, fmt.Errorf("unexpected magic %q", magic)
	}
	version, err := mr.ReadInt()
	if err != nil {
		return meta, err
	}
	if version != tableFileVersion {
		return meta, fmt.Errorf("unsupported table version %d", version)
	}
	if meta.Session, err = mr.ReadString(); err != nil {
		return meta, err
	}
	if meta.Episodes, err = mr.ReadInt64(); err != nil {
		return meta, err
	}
	if meta.Epsilon, err = mr.ReadFloat64(); err != nil {
		return meta, err
	}
	savedAt, err := mr.ReadInt64()
	if err != nil {
		return meta, err
	}
	if savedAt != 0 {
		meta.SavedAt = time.Unix(0, savedAt).UTC()
	}
	return meta, nil
}

func readEntry(mr *msgp.Reader) (Key, float64, error) {
	var k Key
	fields, err := mr.ReadArrayHeader()
	if err != nil {
		return k, 0, err
	}
	if fields != entryFields {
		return k, 0, fmt.Errorf("unexpected entry length %d", fields)
	}
	up, err := mr.ReadInt()
	if err != nil {
		return k, 0, err
	}
	k.State.DealerUp = deck.Card(up)
	if !k.State.DealerUp.Valid() {
		return k, 0, fmt.Errorf("invalid dealer card %d", up)
	}
	if k.State.PlayerTotal, err = mr.ReadInt(); err != nil {
		return k, 0, err
	}
	if k.State.SoftAces, err = mr.ReadInt(); err != nil {
		return k, 0, err
	}
	if k.State.HandSize, err = mr.ReadInt(); err != nil {
		return k, 0, err
	}
	if k.State.Bet, err = mr.ReadBool(); err != nil {
		return k, 0, err
	}
	action, err := mr.ReadUint8()
	if err != nil {
		return k, 0, err
	}
	k.Action = Action(action)
	if !k.Action.Valid() {
		return k, 0, fmt.Errorf("invalid action %d", action)
	}
	v, err := mr.ReadFloat64()
	if err != nil {
		return k, 0, err
	}
	return k, v, nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", ErrCorruptTable, err)
}

// SaveTable atomically writes the table to path, creating parent
// directories as needed.
func SaveTable(path string, t *QTable, meta Metadata) error {
	var buf bytes.Buffer
	if err := WriteTable(&buf, t, meta); err != nil {
		return fmt.Errorf("encode q-table: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create q-table dir: %w", err)
		}
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("persist q-table: %w", err)
	}
	return nil
}

// LoadTable reads a table from path. A missing file yields an empty table
// and zero metadata; an unreadable or corrupt file is an error.
func LoadTable(path string) (*QTable, Metadata, error) {
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("read q-table: %w", err)
	}
	if !ok {
		return NewQTable(), Metadata{}, nil
	}
	return ReadTable(bytes.NewReader(data))
}

