package memory

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFloat32SliceToBlob(t *testing.T) {
	input := []float32{1.0, 2.0, 3.0}
	blob := float32SliceToBlob(input)

	if len(blob) != 12 { // 3 floats * 4 bytes each
		t.Fatalf("expected 12 bytes, got %d", len(blob))
	}

	bits := binary.LittleEndian.Uint32(blob[0:4])
	if val := math.Float32frombits(bits); val != 1.0 {
		t.Errorf("first float: got %f, want 1.0", val)
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	input := []float32{0.0, -1.0, 1e-10, 1e10, math.MaxFloat32}
	blob := float32SliceToBlob(input)
	output := BlobToFloat32Slice(blob)

	if len(output) != len(input) {
		t.Fatalf("length mismatch: got %d, want %d", len(output), len(input))
	}
	for i := range input {
		if input[i] != output[i] {
			t.Errorf("round-trip failed at index %d: %f != %f", i, input[i], output[i])
		}
	}
}

func TestVectorStore_UpsertAndSearch(t *testing.T) {
	database := setupDB(t)
	userID := setupUser(t, database)
	store := NewStore(database)
	vectors := NewVectorStore(database)

	near, err := store.Insert(userID, "near", TagConversation)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	far, err := store.Insert(userID, "far", TagConversation)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	unit := func(index int, scale float32) []float32 {
		v := make([]float32, 384)
		v[index] = scale
		return v
	}
	if err := vectors.Upsert(near.ID, unit(0, 1)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := vectors.Upsert(far.ID, unit(1, 10)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	matches, err := vectors.Search(unit(0, 1), 2, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].MemoryID != near.ID {
		t.Errorf("nearest = %q, want %q", matches[0].MemoryID, near.ID)
	}
	if matches[0].Similarity <= matches[1].Similarity {
		t.Errorf("similarity not descending: %v then %v", matches[0].Similarity, matches[1].Similarity)
	}
}

func TestVectorStore_SimilarityThreshold(t *testing.T) {
	database := setupDB(t)
	userID := setupUser(t, database)
	store := NewStore(database)
	vectors := NewVectorStore(database)

	mem, err := store.Insert(userID, "distant point", TagConversation)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	v := make([]float32, 384)
	v[0] = 100
	if err := vectors.Upsert(mem.ID, v); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Query from the origin: distance 100, similarity ~0.0099.
	matches, err := vectors.Search(make([]float32, 384), 1, 0.5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected threshold to drop the match, got %d", len(matches))
	}
}

func TestVectorStore_UpsertEmptyIsNoop(t *testing.T) {
	database := setupDB(t)
	vectors := NewVectorStore(database)

	if err := vectors.Upsert("some-id", nil); err != nil {
		t.Errorf("empty upsert should be a no-op, got %v", err)
	}
}
