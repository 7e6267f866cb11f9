package vectorindex

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot layout: a binary vector-matrix file and a parallel JSON id list,
// versioned together. Loading validates the header and that the id count
// matches the vector count before trusting either file.
const (
	VectorsFile = "vectors.bin"
	IDsFile     = "ids.json"

	snapshotMagic   uint32 = 0x4d414152 // "MAAR"
	snapshotVersion uint32 = 1
)

type snapshotHeader struct {
	Magic   uint32
	Version uint32
	Dim     uint32
	Count   uint32
}

// SaveSnapshot writes the index to dir. Files are written to temporary names
// and renamed so a crash mid-write never leaves a half snapshot under the
// final names.
func (x *Index) SaveSnapshot(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	var buf bytes.Buffer
	header := snapshotHeader{
		Magic:   snapshotMagic,
		Version: snapshotVersion,
		Dim:     uint32(x.dim),
		Count:   uint32(len(x.vectors)),
	}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to encode snapshot header: %w", err)
	}
	for _, vec := range x.vectors {
		if err := binary.Write(&buf, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("failed to encode vectors: %w", err)
		}
	}

	idsData, err := json.Marshal(x.ids)
	if err != nil {
		return fmt.Errorf("failed to encode record ids: %w", err)
	}

	if err := writeAtomic(filepath.Join(dir, VectorsFile), buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write vector matrix: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, IDsFile), idsData); err != nil {
		return fmt.Errorf("failed to write id list: %w", err)
	}
	return nil
}

// LoadSnapshot reads an index from dir. It returns ErrSnapshotMissing when no
// snapshot exists and ErrSnapshotCorrupt when the files disagree with each
// other or with their header; callers recover by rebuilding from the corpus.
func LoadSnapshot(dir string) (*Index, error) {
	raw, err := os.ReadFile(filepath.Join(dir, VectorsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotMissing
		}
		return nil, fmt.Errorf("failed to read vector matrix: %w", err)
	}

	reader := bytes.NewReader(raw)
	var header snapshotHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("unreadable snapshot header: %w", ErrSnapshotCorrupt)
	}
	if header.Magic != snapshotMagic || header.Version != snapshotVersion {
		return nil, fmt.Errorf("bad snapshot magic or version: %w", ErrSnapshotCorrupt)
	}

	expected := int64(header.Count) * int64(header.Dim) * 4
	if int64(reader.Len()) != expected {
		return nil, fmt.Errorf("vector matrix is %d bytes, header implies %d: %w",
			reader.Len(), expected, ErrSnapshotCorrupt)
	}

	vectors := make([][]float32, header.Count)
	for i := range vectors {
		vec := make([]float32, header.Dim)
		if err := binary.Read(reader, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("truncated vector matrix: %w", ErrSnapshotCorrupt)
		}
		vectors[i] = vec
	}

	idsData, err := os.ReadFile(filepath.Join(dir, IDsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotMissing
		}
		return nil, fmt.Errorf("failed to read id list: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(idsData, &ids); err != nil {
		return nil, fmt.Errorf("unreadable id list: %w", ErrSnapshotCorrupt)
	}

	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("id list has %d entries, vector matrix has %d: %w",
			len(ids), len(vectors), ErrSnapshotCorrupt)
	}

	return &Index{
		dim:     int(header.Dim),
		vectors: vectors,
		ids:     ids,
	}, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
