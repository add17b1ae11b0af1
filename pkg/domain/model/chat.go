package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/domain/types"
)

// ContextDocument is a client-supplied document reference attached to a chat
// request. The pipeline retrieves knowledge base context from the chunk
// store itself; this field exists for wire compatibility with the editor
// frontend, which sends the open knowledge base alongside each query.
type ContextDocument struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ChatRequest is a single pipeline invocation. Query is immutable input;
// TempVectors are ephemeral embeddings that live only for this request.
type ChatRequest struct {
	UserID          types.UserID          `json:"userId"`
	KnowledgeBaseID types.KnowledgeBaseID `json:"kbId"`
	Query           string                `json:"query"`
	EditorContent   string                `json:"editorContent,omitempty"`
	ChatHistory     string                `json:"chatHistory,omitempty"`
	ForceWebSearch  bool                  `json:"forceWebSearch,omitempty"`
	KBContext       []ContextDocument     `json:"kbContext,omitempty"`
	TempVectors     []EphemeralVector     `json:"tempVectors,omitempty"`
}

// Validate checks the required request fields. A failure here must surface
// before any pipeline step runs.
func (x *ChatRequest) Validate() error {
	if err := x.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid chat request")
	}
	if err := x.KnowledgeBaseID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid chat request")
	}
	if x.Query == "" {
		return goerr.New("invalid chat request: query cannot be empty")
	}
	return nil
}

// ChatResponse is the externally visible pipeline result. It is composed
// once at the end of the pipeline and never partially emitted. RelevantChunks
// and WebSources are always present (empty when not applicable), and
// SuggestedChanges appears only when the model proposed a non-empty edit.
type ChatResponse struct {
	Answer           string            `json:"answer"`
	RelevantChunks   []ScoredChunk     `json:"relevantChunks"`
	UsedWebSearch    bool              `json:"usedWebSearch"`
	WebSources       []WebSearchResult `json:"webSources"`
	SuggestedChanges string            `json:"suggestedChanges,omitempty"`
}
