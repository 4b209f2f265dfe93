package memory

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sageline/sage/internal/db"
)

// VectorStore provides vector similarity search via sqlite-vec.
type VectorStore struct {
	conn *sql.DB
}

// NewVectorStore creates a VectorStore backed by the given DB.
func NewVectorStore(database *db.DB) *VectorStore {
	return &VectorStore{conn: database.Conn()}
}

// Upsert inserts or updates a memory embedding in vec_memories.
func (v *VectorStore) Upsert(memoryID string, embedding []float32) error {
	if len(embedding) == 0 {
		return nil
	}
	blob := float32SliceToBlob(embedding)
	_, err := v.conn.Exec(
		`INSERT INTO vec_memories (memory_id, embedding) VALUES (?, ?)
		 ON CONFLICT(memory_id) DO UPDATE SET embedding = excluded.embedding`,
		memoryID, blob,
	)
	if err != nil {
		return fmt.Errorf("vector: upsert memory embedding: %w", err)
	}
	return nil
}

// VectorMatch represents a single similarity search result.
type VectorMatch struct {
	MemoryID   string
	Similarity float64
}

// Search finds the top-k most similar memory embeddings to the query vector.
// Returns an empty result if the vec extension is unavailable.
func (v *VectorStore) Search(query []float32, topK int, minSimilarity float64) ([]VectorMatch, error) {
	if len(query) == 0 || topK <= 0 {
		return nil, nil
	}
	blob := float32SliceToBlob(query)
	rows, err := v.conn.Query(
		`SELECT memory_id, distance FROM vec_memories WHERE embedding MATCH ? AND k = ?
		 ORDER BY distance`,
		blob, topK,
	)
	if err != nil {
		// sqlite-vec may not be loaded; degrade gracefully.
		return nil, nil //nolint:nilerr
	}
	defer rows.Close()

	var out []VectorMatch
	for rows.Next() {
		var id string
		var distance float64
		if err := rows.Scan(&id, &distance); err != nil {
			return nil, err
		}
		// sqlite-vec returns L2 distance; convert to a similarity in (0,1]:
		// similarity = 1 / (1 + distance). Filter by threshold.
		similarity := 1.0 / (1.0 + distance)
		if similarity >= minSimilarity {
			out = append(out, VectorMatch{MemoryID: id, Similarity: similarity})
		}
	}
	return out, rows.Err()
}

// Delete removes a memory embedding.
func (v *VectorStore) Delete(memoryID string) error {
	_, err := v.conn.Exec(`DELETE FROM vec_memories WHERE memory_id = ?`, memoryID)
	return err
}

// ---- Helpers ----

// float32SliceToBlob serialises a float32 slice to a little-endian byte blob.
// This is the format expected by sqlite-vec's BLOB column input.
func float32SliceToBlob(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// BlobToFloat32Slice deserialises a little-endian byte blob to a float32 slice.
func BlobToFloat32Slice(b []byte) []float32 {
	result := make([]float32, len(b)/4)
	for i := range result {
		bits := binary.LittleEndian.Uint32(b[i*4:])
		result[i] = math.Float32frombits(bits)
	}
	return result
}
