package dto

type UploadKnowledgeRequest struct {
	FilePath    string `json:"file_path" validate:"required"`
	CharacterId string `json:"character_id,omitempty"`
}

type UploadKnowledgeResponse struct {
	FilePath        string `json:"file_path"`
	CharacterId     string `json:"character_id,omitempty"`
	ChunksProcessed int    `json:"chunks_processed"`
}

type DeleteKnowledgeResponse struct {
	SourceFile string `json:"source_file"`
	Deleted    int64  `json:"deleted"`
}

type KnowledgeSourcesResponse struct {
	Sources []string `json:"sources"`
}

type KnowledgeStatsResponse struct {
	CharacterId      string   `json:"character_id,omitempty"`
	KnowledgeSources int      `json:"knowledge_sources"`
	Sources          []string `json:"sources"`
}
