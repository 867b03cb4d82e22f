package udf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/udf/internal/core"
)

func buildSampleDataset(t *testing.T) core.DatasetRef {
	t.Helper()
	d := core.NewDataset()

	verts := []float32{0, 0, 1, 0, 0, 1}
	require.NoError(t, d.AddTable(core.TableRef{
		KeyName: core.HashName("vertices"),
		Data: core.DataRef{
			Bytes:    core.Bytes(verts),
			TypeInfo: core.TypePrimF32 | core.TypeDim1D,
			Shape:    core.Shape1D(uint32(len(verts))),
		},
	}))
	d.Names.Add("vertices", core.HashName("vertices"))

	ref, err := d.Finalize()
	require.NoError(t, err)
	return ref
}

func TestCreate_WritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.udf")

	f, err := Create(path, [4]byte{'T', 'E', 'S', 'T'})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, [4]byte{'T', 'E', 'S', 'T'}, f.ID())
	assert.True(t, f.Root().IsNull())
}

func TestCreate_Open_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.udf")

	f, err := Create(path, [4]byte{'U', 'D', 'F', 'X'})
	require.NoError(t, err)

	ds := buildSampleDataset(t)
	fo, err := f.AddDataset(ds)
	require.NoError(t, err)
	f.SetRoot(fo)
	require.NoError(t, f.WriteHeader())
	require.NoError(t, f.Flush())
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, [4]byte{'U', 'D', 'F', 'X'}, r.ID())
	assert.False(t, r.Root().IsNull())

	got, err := r.ReadDataset(r.Root())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	table, ok := got.AsRef().FindTable(core.HashName("vertices"))
	require.True(t, ok)
	data, ok := got.AsRef().GetDataRef(table)
	require.True(t, ok)
	vals, ok := core.AsSlice[float32](data.Bytes)
	require.True(t, ok)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1}, vals)
}

func TestOpen_RejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.udf")

	f, err := Create(path, [4]byte{'X', 'X', 'X', 'X'})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// Corrupt the magic bytes directly on disk.
	raw := make([]byte, 4)
	w, err := Edit(path)
	require.NoError(t, err)
	copy(raw, "nope")
	require.NoError(t, w.w.WriteAtAddress(raw, 0))
	require.NoError(t, w.Close())

	_, err = Open(path)
	assert.Error(t, err)
}

func TestEdit_DoesNotCreateMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.udf")
	_, err := Edit(path)
	assert.Error(t, err)
}

func TestEdit_AllowsAppendingDatasets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.udf")

	f, err := Create(path, [4]byte{'E', 'D', 'I', 'T'})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	e, err := Edit(path)
	require.NoError(t, err)
	defer e.Close()

	ds := buildSampleDataset(t)
	fo, err := e.AddDataset(ds)
	require.NoError(t, err)
	assert.False(t, fo.IsNull())

	got, err := e.ReadDataset(fo)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestWriteDataset_RejectsUnalignedOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.udf")
	f, err := Create(path, [4]byte{'A', 'L', 'I', 'G'})
	require.NoError(t, err)
	defer f.Close()

	ds := buildSampleDataset(t)
	err = f.WriteDataset(core.FileOffset{Offset: 3, Size: 3}, ds)
	assert.Error(t, err)
}

func TestReadDataset_RejectsNullOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.udf")
	f, err := Create(path, [4]byte{'N', 'U', 'L', 'L'})
	require.NoError(t, err)
	defer f.Close()

	_, err = f.ReadDataset(core.FileOffset{})
	assert.Error(t, err)
}
