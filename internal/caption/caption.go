// Package caption generates AI image descriptions by streaming from an
// OpenAI-compatible chat completions API.
package caption

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/titouancv/mapinned/internal/observability"

	openai "github.com/sashabaranov/go-openai"
)

// DescribePrompt is the prompt sent along with the image URL.
const DescribePrompt = `Provide a technical and concise description of the image content. ` +
	`Focus on visual elements, composition, and lighting. Do not use markdown, ` +
	`bullet points, or any formatting. Output plain text only.`

// Fragment is one incremental piece of a streamed description. A non-nil Err
// means the stream failed mid-way; fragments received before it remain valid
// and the consumer decides whether to keep them.
type Fragment struct {
	Text string
	Err  error
}

// Streamer produces a description of the image at the given URL as a
// cancellable lazy sequence of text fragments. The channel is closed when the
// stream ends or ctx is cancelled.
type Streamer interface {
	Describe(ctx context.Context, imageURL string) (<-chan Fragment, error)
}

// Client streams captions from an OpenRouter-style endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a caption client. baseURL selects the inference gateway;
// the default OpenAI URL is used when empty.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Describe implements Streamer. The returned error covers failures opening
// the stream; mid-stream failures arrive as a Fragment with Err set, after
// which the channel is closed.
func (c *Client) Describe(ctx context.Context, imageURL string) (<-chan Fragment, error) {
	req := openai.ChatCompletionRequest{
		Model:  c.model,
		Stream: true,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: DescribePrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageURL,
						},
					},
				},
			},
		},
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		observability.CaptionStreamsTotal.WithLabelValues("open_failed").Inc()
		return nil, fmt.Errorf("failed to open caption stream: %w", err)
	}

	// Small buffer so the reader goroutine is not lock-stepped with the consumer.
	ch := make(chan Fragment, 16)

	go func() {
		defer close(ch)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				observability.CaptionStreamsTotal.WithLabelValues("completed").Inc()
				return
			}
			if err != nil {
				observability.CaptionStreamsTotal.WithLabelValues("failed").Inc()
				select {
				case ch <- Fragment{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			content := resp.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			select {
			case ch <- Fragment{Text: content}:
			case <-ctx.Done():
				observability.CaptionStreamsTotal.WithLabelValues("cancelled").Inc()
				return
			}
		}
	}()

	return ch, nil
}
