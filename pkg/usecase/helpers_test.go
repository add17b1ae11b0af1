package usecase_test

import (
	"context"
	"sync"

	"github.com/m-mizutani/gollem"

	"github.com/draftmill/inkbase/pkg/service/websearch"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{
		Texts: []string{`{"answer": "test answer", "suggestedChanges": ""}`},
	}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	mu                  sync.Mutex
	newSessionFn        func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
	sessionCount        int
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	c.mu.Lock()
	c.sessionCount++
	c.mu.Unlock()

	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if c.generateEmbeddingFn != nil {
		return c.generateEmbeddingFn(ctx, dimension, input)
	}

	vectors := make([][]float64, len(input))
	for i := range input {
		vectors[i] = []float64{1, 0, 0}
	}
	return vectors, nil
}

func (c *mockLLMClient) sessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionCount
}

// mockSearchService is a mock web search provider for testing
type mockSearchService struct {
	mu       sync.Mutex
	searchFn func(ctx context.Context, query string) ([]websearch.Hit, error)
	queries  []string
}

func (m *mockSearchService) Search(ctx context.Context, query string) ([]websearch.Hit, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

func (m *mockSearchService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}
