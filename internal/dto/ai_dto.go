package dto

type AiChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type AiChatRequest struct {
	Messages        []AiChatMessageDTO `json:"messages" validate:"required,min=1,dive"`
	Context         string             `json:"context"`
	DocumentContext string             `json:"document_context"`
}

type AiChatResponse struct {
	Reply string `json:"reply"`
}

type FormatTranscriptRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	Previous   string `json:"previous"`
}

type FormatTranscriptResponse struct {
	Formatted string `json:"formatted"`
}
