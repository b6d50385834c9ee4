package vision

import (
	"context"
	"fmt"
	"strings"

	"shotsort/internal/category"
)

const categorizePrompt = `Look at this screenshot and respond with JSON only:
{"category": "<one of: Finance, Chats, Shopping, Code, Social, System, Events, Food, Travel, Unsorted>", "summary": "<one short sentence describing the screenshot>"}
Pick the single best category. Use "Unsorted" only when nothing fits.`

const extractTextPrompt = `Transcribe all readable text in this screenshot exactly as it appears.
Preserve line breaks. Respond with the text only, no commentary.
If there is no readable text, respond with an empty string.`

const describeObjectsPrompt = `List the main objects, people, and on-screen elements visible in this image.
Respond with a short comma-separated list only, no sentences.`

const translateSystemPrompt = `You translate text. Respond with the translation only, no commentary or quotes.`

// Categorization is the parsed categorize response.
type Categorization struct {
	Category category.Category
	Summary  string
}

// Categorize asks the model to classify the screenshot and summarize it
// in one sentence. Unknown category names coerce to Unsorted.
func (c *Client) Categorize(ctx context.Context, imagePath string) (Categorization, error) {
	var result Categorization
	content, err := c.completeImage(ctx, "vision categorize", categorizePrompt, imagePath, true)
	if err != nil {
		return result, err
	}
	var parsed struct {
		Category string `json:"category"`
		Summary  string `json:"summary"`
	}
	if err := DecodeModelJSON(content, &parsed); err != nil {
		return result, fmt.Errorf("vision categorize: parse payload: %w", err)
	}
	result.Category = category.Parse(parsed.Category)
	result.Summary = strings.TrimSpace(parsed.Summary)
	return result, nil
}

// ExtractText transcribes the screenshot's visible text.
func (c *Client) ExtractText(ctx context.Context, imagePath string) (string, error) {
	content, err := c.completeImage(ctx, "vision extract", extractTextPrompt, imagePath, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// DescribeObjects returns a comma-separated list of objects visible in the
// image, used for video frame analysis.
func (c *Client) DescribeObjects(ctx context.Context, imagePath string) (string, error) {
	content, err := c.completeImage(ctx, "vision describe", describeObjectsPrompt, imagePath, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// Translate renders text into the target language (a BCP 47 tag such as "en").
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	prompt := fmt.Sprintf("Translate the following text to %s:\n\n%s", targetLang, text)
	content, err := c.completeText(ctx, "vision translate", translateSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}
