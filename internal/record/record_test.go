package record

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directRecord = `{
  "collision_type": "vf",
  "num_queries": 100,
  "RootParity": {"avg_query_time": 2.0, "num_false_positives": 1, "num_false_negatives": 0},
  "RationalRootParity": {"avg_query_time": 9.5, "num_false_positives": null}
}`

const keyedRecord = `{
  "num_queries": 300,
  "MinSeparationRootParity": {
    "1e-08": {"avg_query_time": 6.0, "num_false_positives": 0, "num_false_negatives": 2},
    "0.01": {"avg_query_time": 11.0, "num_false_positives": 4, "num_false_negatives": 0},
    "note": {"avg_query_time": 0}
  }
}`

func TestParseCollisionType(t *testing.T) {
	for in, want := range map[string]CollisionType{
		"vertex-face": VertexFace,
		"VF":          VertexFace,
		" ee ":        EdgeEdge,
		"edge-edge":   EdgeEdge,
	} {
		got, err := ParseCollisionType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCollisionType("face-face")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertex-face or edge-edge")

	assert.Equal(t, "Vertex-Face", VertexFace.Title())
	assert.Equal(t, "Edge-Edge", EdgeEdge.Title())
}

func TestDecodeDirect(t *testing.T) {
	rec, err := Decode([]byte(directRecord))
	require.NoError(t, err)

	assert.Equal(t, 100, rec.NumQueries)
	assert.Equal(t, []string{"RationalRootParity", "RootParity"}, rec.MethodNames())

	rp := rec.Methods["RootParity"]
	require.False(t, rp.Keyed())
	assert.Equal(t, 2.0, rp.Direct.AvgQueryTime)
	require.NotNil(t, rp.Direct.FalsePositives)
	assert.Equal(t, 1, *rp.Direct.FalsePositives)

	rrp := rec.Methods["RationalRootParity"]
	assert.Nil(t, rrp.Direct.FalsePositives)
	assert.Nil(t, rrp.Direct.FalseNegatives)
}

func TestDecodeKeyed(t *testing.T) {
	rec, err := Decode([]byte(keyedRecord))
	require.NoError(t, err)

	ms := rec.Methods["MinSeparationRootParity"]
	require.True(t, ms.Keyed())

	distances := ms.Distances()
	require.Len(t, distances, 2)
	assert.Equal(t, "1e-08", distances[0].Key)
	assert.Equal(t, "0.01", distances[1].Key)

	m, ok := ms.Lookup(1e-8)
	require.True(t, ok)
	assert.Equal(t, 6.0, m.AvgQueryTime)

	_, ok = ms.Lookup(1e-16)
	assert.False(t, ok)
}

func TestMethodResultMarshalRoundTrip(t *testing.T) {
	rec, err := Decode([]byte(keyedRecord))
	require.NoError(t, err)

	data, err := json.Marshal(rec.Methods["MinSeparationRootParity"])
	require.NoError(t, err)

	var back MethodResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec.Methods["MinSeparationRootParity"], back)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"num_queries":`,
		"missing queries":    `{"RootParity": {"avg_query_time": 1}}`,
		"zero queries":       `{"num_queries": 0}`,
		"negative time":      `{"num_queries": 1, "RootParity": {"avg_query_time": -1}}`,
		"fractional count":   `{"num_queries": 1, "RootParity": {"avg_query_time": 1, "num_false_positives": 0.5}}`,
		"scalar method":      `{"num_queries": 1, "RootParity": 3}`,
		"empty keyed":        `{"num_queries": 1, "RootParity": {}}`,
		"keyed without time": `{"num_queries": 1, "RootParity": {"1e-08": {"num_false_positives": 1}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRecord), "got %v", err)
		})
	}
}

func writeRecord(t *testing.T, root, scene string, ct CollisionType, kind Kind, body string) {
	t.Helper()
	dir := filepath.Join(root, scene, string(ct))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, string(kind)), []byte(body), 0o644))
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeRecord(t, root, "golf-ball", VertexFace, Benchmark, directRecord)
	writeRecord(t, root, "chain", VertexFace, Benchmark, directRecord)
	writeRecord(t, root, "chain", EdgeEdge, Benchmark, keyedRecord)
	writeRecord(t, root, "cow-heads", VertexFace, MinSeparation, keyedRecord)
	// Scene folder present but without the requested collision type.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "mat-twist", string(EdgeEdge)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.json"), []byte("{}"), 0o644))

	t.Run("selected scenes sorted", func(t *testing.T) {
		recs, err := Load(root, VertexFace, []string{"mat-twist", "golf-ball", "chain", "absent"}, Benchmark)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "chain", recs[0].Scene)
		assert.Equal(t, "golf-ball", recs[1].Scene)
		assert.Equal(t, VertexFace, recs[0].CollisionType)
		assert.Equal(t, filepath.Join(root, "chain", "vertex-face", "benchmark.json"), recs[0].Path)
	})

	t.Run("nil scenes selects all", func(t *testing.T) {
		recs, err := Load(root, VertexFace, nil, Benchmark)
		require.NoError(t, err)
		require.Len(t, recs, 2)
	})

	t.Run("kind and type isolate files", func(t *testing.T) {
		recs, err := Load(root, VertexFace, nil, MinSeparation)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "cow-heads", recs[0].Scene)

		recs, err = Load(root, EdgeEdge, nil, Benchmark)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, 300, recs[0].NumQueries)
	})

	t.Run("empty selection is not an error", func(t *testing.T) {
		recs, err := Load(root, EdgeEdge, []string{}, Benchmark)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := Load(filepath.Join(root, "nope"), VertexFace, nil, Benchmark)
		assert.Error(t, err)
	})

	t.Run("malformed file fails loudly", func(t *testing.T) {
		bad := t.TempDir()
		writeRecord(t, bad, "chain", VertexFace, Benchmark, `{"num_queries": "many"}`)
		_, err := Load(bad, VertexFace, nil, Benchmark)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRecord)
		assert.Contains(t, err.Error(), "chain")
	})
}
