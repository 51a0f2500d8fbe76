package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"zesto-backend/internal/utils"
)

const defaultTimeout = 60 * time.Second

type (
	// Recognizer turns a receipt photo into raw text. An image without
	// readable text yields an empty string, not an error.
	Recognizer interface {
		Recognize(ctx context.Context, image []byte, contentType string) (string, error)
	}

	client struct {
		url        string
		httpClient *http.Client
	}
)

func NewClient(url string, timeout time.Duration) Recognizer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func NewClientFromConfig() Recognizer {
	return NewClient(utils.GetConfig("OCR_URL"), utils.GetDurationConfig("OCR_TIMEOUT", defaultTimeout))
}

func (c *client) Recognize(ctx context.Context, image []byte, contentType string) (string, error) {
	if c.url == "" {
		return "", fmt.Errorf("OCR_URL not configured")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, fileName(contentType)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err = part.Write(image); err != nil {
		return "", err
	}
	if err = writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ocr service error: %s - %s", resp.Status, string(bodyBytes))
	}

	var ocrResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ocrResponse); err != nil {
		return "", fmt.Errorf("failed to decode ocr response: %w", err)
	}

	return strings.TrimSpace(ocrResponse.Text), nil
}

func fileName(contentType string) string {
	exts, _ := mime.ExtensionsByType(contentType)
	if len(exts) == 0 {
		return "receipt"
	}
	return "receipt" + exts[0]
}
