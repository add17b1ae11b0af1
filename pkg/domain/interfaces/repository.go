package interfaces

// Repository defines the interface for data persistence.
type Repository interface {
	Chunk() ChunkRepository
	Document() DocumentRepository
	KnowledgeBase() KnowledgeBaseRepository
	ChatLog() ChatLogRepository

	Close() error
}
