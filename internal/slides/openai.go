package slides

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const openaiModel = "gpt-4o-mini"

func structureWithOpenAI(ctx context.Context, apiKey, text, guidance string) (*Deck, error) {
	client := openai.NewClient(apiKey)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openaiModel,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful assistant that outputs STRICT JSON. Do not add commentary.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: structuringPrompt(text, guidance),
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}
	return decodeDeck(resp.Choices[0].Message.Content)
}
