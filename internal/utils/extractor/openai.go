package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"zesto-backend/domain"
	"zesto-backend/internal/utils"
)

const (
	defaultURL     = "https://api.openai.com/v1/chat/completions"
	defaultModel   = "gpt-3.5-turbo"
	defaultTimeout = 60 * time.Second
)

var ErrMalformedExtraction = errors.New("extraction output is not a JSON array of items")

type (
	// Extractor turns raw receipt text into structured lines. Each line
	// carries a category from taxonomy.
	Extractor interface {
		Extract(ctx context.Context, rawText string, taxonomy []string) ([]domain.ScannedItem, error)
	}

	openAIExtractor struct {
		url        string
		apiKey     string
		model      string
		httpClient *http.Client
		validate   *validator.Validate
	}

	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	chatRequest struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		MaxTokens   int           `json:"max_tokens"`
		Temperature float64       `json:"temperature"`
		TopP        float64       `json:"top_p"`
	}

	chatResponse struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}

	extractedLine struct {
		Name     string          `json:"name"`
		Quantity *float64        `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Type     string          `json:"type"`
		Category string          `json:"category"`
	}
)

func NewOpenAIExtractor(url, apiKey, model string, timeout time.Duration) Extractor {
	if url == "" {
		url = defaultURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &openAIExtractor{
		url:        url,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
	}
}

func NewExtractorFromConfig() Extractor {
	return NewOpenAIExtractor(
		utils.GetConfig("OPENAI_URL"),
		utils.GetConfig("OPENAI_API_KEY"),
		utils.GetConfig("OPENAI_MODEL"),
		utils.GetDurationConfig("OPENAI_TIMEOUT", defaultTimeout),
	)
}

func (e *openAIExtractor) Extract(ctx context.Context, rawText string, taxonomy []string) ([]domain.ScannedItem, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, nil
	}

	requestJSON, err := json.Marshal(chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt(taxonomy)},
			{Role: "user", Content: rawText},
		},
		MaxTokens:   1000,
		Temperature: 0.2,
		TopP:        0.9,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("extraction API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedExtraction, err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, ErrMalformedExtraction
	}

	return e.ParseItems(chatResp.Choices[0].Message.Content, taxonomy)
}

// ParseItems decodes the model output. Lines without a name are dropped;
// missing or sub-one quantities become 1 and unknown categories become Misc.
func (e *openAIExtractor) ParseItems(content string, taxonomy []string) ([]domain.ScannedItem, error) {
	var lines []extractedLine
	if err := json.Unmarshal([]byte(StripCodeFence(content)), &lines); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedExtraction, err)
	}

	items := make([]domain.ScannedItem, 0, len(lines))
	for _, line := range lines {
		item := domain.ScannedItem{
			Name:     strings.TrimSpace(line.Name),
			Quantity: 1,
			Price:    line.Price,
			Category: canonical(firstNonEmpty(line.Type, line.Category), taxonomy),
		}
		if line.Quantity != nil && *line.Quantity >= 1 {
			item.Quantity = int(math.Round(*line.Quantity))
		}
		if item.Price.IsNegative() {
			item.Price = decimal.Zero
		}

		if err := e.validate.Struct(item); err != nil {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// StripCodeFence removes a surrounding markdown code fence, with or without a
// language tag.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[i+1:]
	} else {
		content = strings.TrimPrefix(content, "json")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func SystemPrompt(taxonomy []string) string {
	quoted := make([]string, 0, len(taxonomy))
	for _, c := range taxonomy {
		quoted = append(quoted, fmt.Sprintf("%q", c))
	}

	return `You are a grocery receipt parser.

Your job is to extract a list of grocery items from raw receipt text and return them as a JSON array. Each object must include exactly four fields:
- 'name': full name of the item (expand any abbreviations or codes)
- 'quantity': number of units purchased (use 1 if not explicitly mentioned)
- 'price': the total price for that item (not per unit)
- 'type': the product category. You must pick exactly one from the following list:
  [ ` + strings.Join(quoted, ", ") + ` ]

If an item clearly doesn't match any category, use "` + domain.DefaultCategory + `".

Only include food or kitchen-related grocery items.
Exclude all non-food or non-cooking items such as clothing, cleaning, electronics, tools, or household goods.

Some receipt items are weight-based and include a weight and a unit price, followed by a total price. Their format is generally:
ITEM NAME WEIGHT lb @ UNIT_PRICE/lb TOTAL_PRICE
For these lines, treat everything before the weight as the item name, default the quantity to 1, and take the final number as the total price.

Strictly return only a JSON array. Do not add explanations or other text.`
}

func canonical(category string, taxonomy []string) string {
	category = strings.TrimSpace(category)
	for _, c := range taxonomy {
		if strings.EqualFold(c, category) {
			return c
		}
	}
	return domain.DefaultCategory
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
