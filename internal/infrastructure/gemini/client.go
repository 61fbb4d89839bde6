package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client generates a short pitch for a freshly detected trade opportunity.
// It is optional: the matching flow works without it.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewClient(apiKey string) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// GenerateTradePitch writes one or two sentences suggesting why swapping
// item1 for item2 is a good deal. Falls back to canned text when the API
// is unavailable.
func (c *Client) GenerateTradePitch(ctx context.Context, item1Title, item2Title string) (string, error) {
	prompt := fmt.Sprintf(`
		Two users of a barter marketplace just matched: one offers "%s",
		the other offers "%s".

		Task: Write a short, friendly pitch (1-2 sentences) encouraging
		them to complete the swap.
		Output: Just the pitch text.
	`, item1Title, item2Title)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return c.mockPitch(item1Title, item2Title), nil
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return c.mockPitch(item1Title, item2Title), nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

func (c *Client) mockPitch(item1Title, item2Title string) string {
	return fmt.Sprintf("It's a match! %q for %q looks like a fair swap. Open the trade and agree on the details.", item1Title, item2Title)
}
