package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/draftmill/inkbase/pkg/usecase"
)

func TestParseAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("valid payload", func(t *testing.T) {
		got := usecase.ParseAnswer(ctx, `{"answer": "use shorter sentences", "suggestedChanges": "A revised draft."}`)
		gt.Value(t, got.Answer).Equal("use shorter sentences")
		gt.Value(t, got.SuggestedChanges).Equal("A revised draft.")
	})

	t.Run("fenced payload is unwrapped", func(t *testing.T) {
		raw := "```json\n{\"answer\": \"fenced answer\", \"suggestedChanges\": \"\"}\n```"
		got := usecase.ParseAnswer(ctx, raw)
		gt.Value(t, got.Answer).Equal("fenced answer")
	})

	t.Run("malformed json falls back", func(t *testing.T) {
		got := usecase.ParseAnswer(ctx, "I think the answer is probably...")
		gt.Value(t, got.Answer).Equal(usecase.FallbackAnswer)
		gt.Value(t, got.SuggestedChanges).Equal("")
	})

	t.Run("truncated json falls back", func(t *testing.T) {
		got := usecase.ParseAnswer(ctx, `{"answer": "cut off mid`)
		gt.Value(t, got.Answer).Equal(usecase.FallbackAnswer)
	})

	t.Run("empty answer field falls back, suggestion survives", func(t *testing.T) {
		got := usecase.ParseAnswer(ctx, `{"answer": "", "suggestedChanges": "edit"}`)
		gt.Value(t, got.Answer).Equal(usecase.FallbackAnswer)
		gt.Value(t, got.SuggestedChanges).Equal("edit")
	})

	t.Run("missing answer key keeps the suggestion", func(t *testing.T) {
		got := usecase.ParseAnswer(ctx, `{"suggestedChanges": "A better draft."}`)
		gt.Value(t, got.Answer).Equal(usecase.FallbackAnswer)
		gt.Value(t, got.SuggestedChanges).Equal("A better draft.")
	})

	t.Run("missing suggestedChanges key is tolerated", func(t *testing.T) {
		got := usecase.ParseAnswer(ctx, `{"answer": "plain answer"}`)
		gt.Value(t, got.Answer).Equal("plain answer")
		gt.Value(t, got.SuggestedChanges).Equal("")
	})
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, usecase.StripCodeFence(tc.input)).Equal(tc.want)
		})
	}
}
