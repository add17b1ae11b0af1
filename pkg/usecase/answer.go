package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/draftmill/inkbase/pkg/utils/errutil"
	"github.com/draftmill/inkbase/pkg/utils/logging"
	"github.com/draftmill/inkbase/pkg/utils/retry"
)

//go:embed prompt/answer_system.md
var answerSystemPromptTmpl string

var answerSystemPrompt = template.Must(template.New("answer_system").Parse(answerSystemPromptTmpl))

const (
	defaultPersona = "Assume the role of a thesis advisor with a specialization in academic writing."

	// fallbackAnswer is returned verbatim whenever synthesis or parsing
	// fails. The pipeline never surfaces a partially parsed answer.
	fallbackAnswer = "Something went wrong! Could not answer at the moment."
)

// answerPayload is the structured output contract of the synthesis call.
type answerPayload struct {
	Answer           string `json:"answer"`
	SuggestedChanges string `json:"suggestedChanges"`
}

func fallbackPayload() answerPayload {
	return answerPayload{Answer: fallbackAnswer}
}

func answerSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Type: gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"answer": {
				Type:        gollem.TypeString,
				Description: "Response to the user's question",
				Required:    true,
			},
			"suggestedChanges": {
				Type:        gollem.TypeString,
				Description: "Replacement text for the editor content, empty when no edit is proposed",
				Required:    true,
			},
		},
	}
}

// synthesizeAnswer runs the final LLM call and parses its structured
// output. Every failure path degrades to the fixed fallback payload;
// synthesis never aborts the request.
func (uc *UseCases) synthesizeAnswer(ctx context.Context, query, contextBlock string) answerPayload {
	persona := uc.profile.Persona
	if persona == "" {
		persona = defaultPersona
	}

	var systemPrompt string
	if uc.profile.AnswerPrompt != "" {
		systemPrompt = uc.profile.AnswerPrompt + "\n\n" + contextBlock
	} else {
		var buf bytes.Buffer
		err := answerSystemPrompt.Execute(&buf, map[string]string{
			"Persona": persona,
			"Context": contextBlock,
		})
		if err != nil {
			errutil.Handle(ctx, goerr.Wrap(err, "failed to render answer prompt"), "returning fallback answer")
			return fallbackPayload()
		}
		systemPrompt = buf.String()
	}

	ssn, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(answerSchema()),
	)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to create answer session"), "returning fallback answer")
		return fallbackPayload()
	}

	var resp *gollem.Response
	err = retry.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, uc.callTimeout)
		defer cancel()

		var genErr error
		resp, genErr = ssn.GenerateContent(callCtx, gollem.Text(query))
		return genErr
	}, uc.retryOpts...)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "answer synthesis call failed"), "returning fallback answer")
		return fallbackPayload()
	}
	if resp == nil || len(resp.Texts) == 0 {
		logging.From(ctx).Warn("answer synthesis returned no text")
		return fallbackPayload()
	}

	return parseAnswer(ctx, resp.Texts[0])
}

// parseAnswer decodes the model output defensively. Markdown code fences
// are stripped before decoding since models wrap JSON in them even when
// told not to. Malformed output yields the fallback; the two fields are
// extracted independently, so a suggestion survives a missing answer.
func parseAnswer(ctx context.Context, raw string) answerPayload {
	cleaned := stripCodeFence(raw)

	var payload answerPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		logging.From(ctx).Warn("failed to parse answer JSON", "error", err, "length", len(raw))
		return fallbackPayload()
	}
	if payload.Answer == "" {
		logging.From(ctx).Warn("answer JSON has empty answer field")
		payload.Answer = fallbackAnswer
	}

	return payload
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
