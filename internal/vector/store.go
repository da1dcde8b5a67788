// Package vector loads and scans the precomputed verse embedding file.
//
// The file is flat binary with a self-describing header:
//
//	magic "ESCRVEC1" | dims uint32 | count uint32 | modelLen uint16 | model |
//	verse ids count×uint32 | vectors count×dims×float32
//
// all integers and floats little-endian. Rows follow canonical verse order.
// A loaded Store is immutable; reloads swap a whole new Store via Holder.
package vector

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/viterin/vek/vek32"

	serr "github.com/noahread/escrituras/internal/errors"
)

// Magic identifies the embedding file format, version included.
const Magic = "ESCRVEC1"

const maxModelNameLen = 1 << 10

// Store holds every verse vector in memory for exact scans.
type Store struct {
	model string
	dims  int
	ids   []int32   // canonical order, parallel to rows
	rows  []float32 // count*dims, row i at rows[i*dims:(i+1)*dims]
	byID  map[int32]int
}

// Match is one scan hit.
type Match struct {
	VerseID int
	Score   float32
}

// Open reads and validates an embedding file. The caller decides whether a
// missing file is fatal; corrupt contents are always a data error.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serr.New(serr.ErrCodeVectorFileCorrupt,
			fmt.Sprintf("embedding file not readable: %s", path), err)
	}
	defer func() { _ = f.Close() }()

	s, err := read(f)
	if err != nil {
		return nil, serr.Wrap(serr.ErrCodeVectorFileCorrupt, err).
			WithDetail("path", path).
			WithSuggestion("Regenerate the file with `escrituras embed`.")
	}
	return s, nil
}

func read(r io.Reader) (*Store, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(magic[:]) != Magic {
		return nil, fmt.Errorf("bad magic %q, want %q", magic[:], Magic)
	}

	var dims, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}
	if dims == 0 || count == 0 {
		return nil, fmt.Errorf("empty embedding file (dims=%d count=%d)", dims, count)
	}

	var modelLen uint16
	if err := binary.Read(r, binary.LittleEndian, &modelLen); err != nil {
		return nil, fmt.Errorf("read model name length: %w", err)
	}
	if modelLen == 0 || modelLen > maxModelNameLen {
		return nil, fmt.Errorf("implausible model name length %d", modelLen)
	}
	model := make([]byte, modelLen)
	if _, err := io.ReadFull(r, model); err != nil {
		return nil, fmt.Errorf("read model name: %w", err)
	}

	s := &Store{
		model: string(model),
		dims:  int(dims),
		ids:   make([]int32, count),
		rows:  make([]float32, int(count)*int(dims)),
		byID:  make(map[int32]int, count),
	}
	if err := binary.Read(r, binary.LittleEndian, s.ids); err != nil {
		return nil, fmt.Errorf("read verse ids: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, s.rows); err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	// Trailing bytes mean a truncated write or a format drift.
	if n, _ := io.Copy(io.Discard, r); n != 0 {
		return nil, fmt.Errorf("%d trailing bytes after %d vectors", n, count)
	}

	last := int32(0)
	for i, id := range s.ids {
		if id <= last {
			return nil, fmt.Errorf("verse ids not strictly increasing at row %d", i)
		}
		last = id
		s.byID[id] = i
	}

	return s, nil
}

// Write emits the embedding file atomically: a temp file in the target
// directory, fsynced, then renamed over path. ids and vectors must be
// parallel and in canonical verse order.
func Write(path, model string, dims int, ids []int, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return serr.InternalError(
			fmt.Sprintf("ids/vectors length mismatch: %d vs %d", len(ids), len(vectors)), nil)
	}
	if len(model) == 0 || len(model) > maxModelNameLen {
		return serr.InternalError(fmt.Sprintf("implausible model name length %d", len(model)), nil)
	}
	for i, vec := range vectors {
		if len(vec) != dims {
			return serr.New(serr.ErrCodeDimensionMismatch,
				fmt.Sprintf("vector %d has %d dimensions, want %d", i, len(vec), dims), nil)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return serr.DataError("failed to create embedding directory", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".embeddings-*.tmp")
	if err != nil {
		return serr.DataError("failed to create temp embedding file", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.WriteString(Magic); err != nil {
		return serr.DataError("failed to write embedding header", err)
	}
	for _, v := range []any{uint32(dims), uint32(len(ids)), uint16(len(model))} {
		if err := binary.Write(tmp, binary.LittleEndian, v); err != nil {
			return serr.DataError("failed to write embedding header", err)
		}
	}
	if _, err := tmp.WriteString(model); err != nil {
		return serr.DataError("failed to write embedding header", err)
	}

	ids32 := make([]int32, len(ids))
	for i, id := range ids {
		ids32[i] = int32(id)
	}
	if err := binary.Write(tmp, binary.LittleEndian, ids32); err != nil {
		return serr.DataError("failed to write verse ids", err)
	}
	for _, vec := range vectors {
		if err := binary.Write(tmp, binary.LittleEndian, vec); err != nil {
			return serr.DataError("failed to write vectors", err)
		}
	}

	if err := tmp.Sync(); err != nil {
		return serr.DataError("failed to sync embedding file", err)
	}
	if err := tmp.Close(); err != nil {
		return serr.DataError("failed to close embedding file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return serr.DataError("failed to move embedding file into place", err)
	}
	return nil
}

// ModelName returns the embedder model the file was generated with.
func (s *Store) ModelName() string { return s.model }

// Dimensions returns the vector width.
func (s *Store) Dimensions() int { return s.dims }

// Count returns the number of stored vectors.
func (s *Store) Count() int { return len(s.ids) }

// VectorFor returns the vector for a verse id. The second return is false
// when the verse has no embedding; callers degrade rather than fail.
func (s *Store) VectorFor(verseID int) ([]float32, bool) {
	row, ok := s.byID[int32(verseID)]
	if !ok {
		return nil, false
	}
	return s.rows[row*s.dims : (row+1)*s.dims], true
}

// Scan runs an exact cosine-similarity pass over every vector and returns
// the top limit matches, descending score, ties broken by canonical verse
// id. The query must match the store's dimensions.
func (s *Store) Scan(query []float32, limit int) ([]Match, error) {
	if len(query) != s.dims {
		return nil, serr.New(serr.ErrCodeDimensionMismatch,
			fmt.Sprintf("query has %d dimensions, store has %d", len(query), s.dims), nil)
	}
	if limit <= 0 {
		return nil, nil
	}

	matches := make([]Match, 0, len(s.ids))
	for i, id := range s.ids {
		score := vek32.CosineSimilarity(query, s.rows[i*s.dims:(i+1)*s.dims])
		if math.IsNaN(float64(score)) {
			continue // zero vector on either side
		}
		matches = append(matches, Match{VerseID: int(id), Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].VerseID < matches[j].VerseID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
