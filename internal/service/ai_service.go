package service

import (
	"context"
	"strings"

	"notedeck-be/internal/apperror"
	"notedeck-be/internal/dto"
	"notedeck-be/internal/pkg/logger"
	"notedeck-be/pkg/llm"
)

const chatSystemPrompt = "You are a helpful assistant inside a notetaking app. " +
	"When note or document context is provided, prefer it when answering. " +
	"When the context does not cover the question, answer from general " +
	"knowledge; never refuse just because context is missing."

const formatSystemPrompt = "You clean up raw speech-to-text transcripts. Fix " +
	"punctuation and capitalization, break the text into paragraphs, and drop " +
	"filler words. Do not summarize, reorder, or add anything. Return only the " +
	"formatted transcript."

type IAiService interface {
	Chat(ctx context.Context, req *dto.AiChatRequest) (*dto.AiChatResponse, error)
	FormatTranscript(ctx context.Context, req *dto.FormatTranscriptRequest) (*dto.FormatTranscriptResponse, error)
}

type aiService struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewAiService(llmProvider llm.LLMProvider, log logger.ILogger) IAiService {
	return &aiService{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Chat answers a free-form conversation, optionally grounded in note context
// the client sends along.
func (c *aiService) Chat(ctx context.Context, req *dto.AiChatRequest) (*dto.AiChatResponse, error) {
	system := chatSystemPrompt
	if req.Context != "" {
		system += "\n\nContext:\n" + req.Context
	}
	if req.DocumentContext != "" {
		system += "\n\nCurrent document:\n" + req.DocumentContext
	}

	history := make([]llm.Message, 0, len(req.Messages)+1)
	history = append(history, llm.Message{Role: "system", Content: system})
	for _, msg := range req.Messages {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	reply, err := c.llmProvider.Chat(ctx, history)
	if err != nil {
		c.logger.Error("AiService", "Chat completion failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, apperror.ProviderFailure("Assistant is unavailable right now")
	}

	return &dto.AiChatResponse{Reply: reply}, nil
}

// FormatTranscript reworks a raw transcript chunk into readable prose. On
// provider failure the raw text is returned unchanged; a live transcription
// session must not stall on a formatting hiccup.
func (c *aiService) FormatTranscript(ctx context.Context, req *dto.FormatTranscriptRequest) (*dto.FormatTranscriptResponse, error) {
	var prompt strings.Builder
	if req.Previous != "" {
		prompt.WriteString("Previously formatted text, for continuity only:\n")
		prompt.WriteString(req.Previous)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("Transcript to format:\n")
	prompt.WriteString(req.Transcript)

	formatted, err := c.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: formatSystemPrompt},
		{Role: "user", Content: prompt.String()},
	})
	if err != nil {
		c.logger.Warn("AiService", "Transcript formatting failed, returning raw text", map[string]interface{}{
			"error": err.Error(),
		})
		return &dto.FormatTranscriptResponse{Formatted: req.Transcript}, nil
	}

	return &dto.FormatTranscriptResponse{Formatted: formatted}, nil
}
