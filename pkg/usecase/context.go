package usecase

import (
	"strings"

	"github.com/draftmill/inkbase/pkg/domain/model"
)

// renderKnowledgeBase joins ranked chunk texts into the knowledge base
// section of the prompt context. No chunks yields an empty section.
func renderKnowledgeBase(chunks []model.ScoredChunk) string {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}
	return strings.Join(texts, "\n\n")
}

// buildContext assembles the labeled context block shared by the search
// policy and answer prompts. Sections appear in a fixed order and empty
// sections are omitted entirely.
func buildContext(kbText, chatHistory, searchText, editorContent string) string {
	var sections []string
	if kbText != "" {
		sections = append(sections, "Knowledge Base Context:\n"+kbText)
	}
	if chatHistory != "" {
		sections = append(sections, "Chat History:\n"+chatHistory)
	}
	if searchText != "" {
		sections = append(sections, "Web Search Results:\n"+searchText)
	}
	if editorContent != "" {
		sections = append(sections, "Current Editor Content:\n"+editorContent)
	}
	return strings.Join(sections, "\n\n")
}
