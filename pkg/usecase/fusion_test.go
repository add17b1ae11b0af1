package usecase_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/usecase"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical direction scores 1", func(t *testing.T) {
		sim := usecase.CosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6})
		gt.Bool(t, math.Abs(sim-1) < 1e-9).True()
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		sim := usecase.CosineSimilarity([]float32{1, 0, 0}, []float32{0, 1, 0})
		gt.Bool(t, math.Abs(sim) < 1e-9).True()
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		sim := usecase.CosineSimilarity([]float32{1, 0, 0}, []float32{-1, 0, 0})
		gt.Bool(t, math.Abs(sim+1) < 1e-9).True()
	})

	t.Run("zero vector yields NaN", func(t *testing.T) {
		sim := usecase.CosineSimilarity([]float32{0, 0, 0}, []float32{1, 0, 0})
		gt.Bool(t, math.IsNaN(sim)).True()
	})

	t.Run("dimension mismatch yields NaN", func(t *testing.T) {
		sim := usecase.CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0})
		gt.Bool(t, math.IsNaN(sim)).True()
	})
}

func TestFuseChunks(t *testing.T) {
	query := []float32{1, 0, 0}

	t.Run("merges and ranks by similarity descending", func(t *testing.T) {
		persisted := []model.ScoredChunk{
			{Text: "kb-high", Similarity: 0.95},
			{Text: "kb-low", Similarity: 0.80},
		}
		ephemeral := []model.EphemeralVector{
			{Text: "temp-exact", Embedding: []float32{2, 0, 0}},
			{Text: "temp-mid", Embedding: []float32{1, 1, 0}},
			{Text: "temp-zero", Embedding: []float32{0, 0, 0}},
		}

		fused := usecase.FuseChunks(query, persisted, ephemeral, 10)
		gt.Array(t, fused).Length(5).Required()

		gt.Value(t, fused[0].Text).Equal("temp-exact")
		gt.Value(t, fused[1].Text).Equal("kb-high")
		gt.Value(t, fused[2].Text).Equal("kb-low")
		gt.Value(t, fused[3].Text).Equal("temp-mid")
		gt.Value(t, fused[4].Text).Equal("temp-zero")
		gt.Bool(t, math.IsNaN(fused[4].Similarity)).True()
	})

	t.Run("truncates to limit keeping highest scores", func(t *testing.T) {
		var persisted []model.ScoredChunk
		for i := 0; i < 15; i++ {
			persisted = append(persisted, model.ScoredChunk{
				Text:       fmt.Sprintf("chunk-%d", i),
				Similarity: 0.99 - float64(i)*0.01,
			})
		}

		fused := usecase.FuseChunks(query, persisted, nil, 10)
		gt.Array(t, fused).Length(10).Required()
		gt.Value(t, fused[0].Text).Equal("chunk-0")
		gt.Value(t, fused[9].Text).Equal("chunk-9")
	})

	t.Run("equal scores keep arrival order", func(t *testing.T) {
		ephemeral := []model.EphemeralVector{
			{Text: "first", Embedding: []float32{1, 0, 0}},
			{Text: "second", Embedding: []float32{3, 0, 0}},
		}

		fused := usecase.FuseChunks(query, nil, ephemeral, 10)
		gt.Array(t, fused).Length(2).Required()
		gt.Value(t, fused[0].Text).Equal("first")
		gt.Value(t, fused[1].Text).Equal("second")
	})

	t.Run("empty inputs yield empty result", func(t *testing.T) {
		fused := usecase.FuseChunks(query, nil, nil, 10)
		gt.Array(t, fused).Length(0)
	})
}
