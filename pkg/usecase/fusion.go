package usecase

import (
	"math"
	"sort"

	"github.com/draftmill/inkbase/pkg/domain/model"
)

// cosineSimilarity returns the cosine of the angle between a and b.
// Zero vectors and dimension mismatches yield NaN rather than a fabricated
// score; NaN entries sort last during fusion.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// fuseChunks merges persisted retrieval results with ephemeral request
// vectors into a single ranking. Ephemeral vectors are scored locally
// against the query embedding, then the combined set is sorted by
// similarity descending and truncated to the retrieval limit. The sort is
// stable so equal scores keep their arrival order.
func fuseChunks(queryVec []float32, persisted []model.ScoredChunk, ephemeral []model.EphemeralVector, limit int) []model.ScoredChunk {
	merged := make([]model.ScoredChunk, 0, len(persisted)+len(ephemeral))
	merged = append(merged, persisted...)

	for _, v := range ephemeral {
		merged = append(merged, model.ScoredChunk{
			Text:       v.Text,
			Similarity: cosineSimilarity(queryVec, v.Embedding),
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		si, sj := merged[i].Similarity, merged[j].Similarity
		if math.IsNaN(si) {
			return false
		}
		if math.IsNaN(sj) {
			return true
		}
		return si > sj
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	return merged
}
