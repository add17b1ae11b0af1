package types

import "github.com/m-mizutani/goerr/v2"

// UserID identifies the owner of documents and knowledge bases. It is
// issued by the external auth collaborator and treated as opaque here.
type UserID string

func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

func (u UserID) String() string {
	return string(u)
}

// KnowledgeBaseID identifies a named, user-owned collection of documents.
type KnowledgeBaseID string

func (k KnowledgeBaseID) Validate() error {
	if k == "" {
		return goerr.New("knowledge base ID cannot be empty")
	}
	return nil
}

func (k KnowledgeBaseID) String() string {
	return string(k)
}

// DocumentID identifies a single ingested document.
type DocumentID string

func (d DocumentID) Validate() error {
	if d == "" {
		return goerr.New("document ID cannot be empty")
	}
	return nil
}

func (d DocumentID) String() string {
	return string(d)
}
