package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"wardrobeapi/logger"
	"wardrobeapi/models"
)

const (
	DefaultUploadTimeout = 50 * time.Second
	// PlaceholderDescription replaces an absent or empty analysis description.
	PlaceholderDescription = "No description available"
)

// Client talks to the wardrobe backend. One base URL serves every endpoint.
type Client struct {
	BaseURL       string
	UploadTimeout time.Duration
	httpClient    *http.Client
	log           *logrus.Entry
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithUploadTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.UploadTimeout = timeout
	}
}

// New creates a client for baseURL. Requests other than image analysis carry
// no client-side timeout; callers bound them through the context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		UploadTimeout: DefaultUploadTimeout,
		httpClient:    &http.Client{},
		log:           logger.Log.WithField("component", "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListClothing returns every stored item. Null tags are replaced by an empty list.
func (c *Client) ListClothing(ctx context.Context) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	if err := c.doJSON(ctx, "list clothing", http.MethodGet, "/clothing", nil, &items); err != nil {
		return nil, err
	}
	return normalizeItems(items), nil
}

func (c *Client) SaveItem(ctx context.Context, in models.SaveItemIn) (*models.CreatedOut, error) {
	var out models.CreatedOut
	if err := c.doJSON(ctx, "save item", http.MethodPost, "/save_item", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.doJSON(ctx, "delete item", http.MethodDelete, "/clothing/"+url.PathEscape(id), nil, nil)
}

// AnalyzeImage uploads an image as multipart field "image" and returns the
// normalized analysis. The call is bounded by UploadTimeout.
func (c *Client) AnalyzeImage(ctx context.Context, image io.Reader) (*models.ClothingDetails, error) {
	const op = "analyze image"

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="image.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, &APIError{Op: op, Err: err}
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, &APIError{Op: op, Err: fmt.Errorf("read image: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return nil, &APIError{Op: op, Err: err}
	}

	if c.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.UploadTimeout)
		defer cancel()
	}

	var raw analysisWire
	if err := c.do(ctx, op, http.MethodPost, "/upload", body, writer.FormDataContentType(), &raw); err != nil {
		return nil, err
	}
	return raw.normalize(), nil
}

func (c *Client) ListSavedOutfits(ctx context.Context) ([]models.Outfit, error) {
	var outfits []models.Outfit
	if err := c.doJSON(ctx, "list saved outfits", http.MethodGet, "/saved_outfits", nil, &outfits); err != nil {
		return nil, err
	}
	if outfits == nil {
		outfits = []models.Outfit{}
	}
	for i := range outfits {
		outfits[i].Items = normalizeItems(outfits[i].Items)
	}
	return outfits, nil
}

func (c *Client) DeleteOutfit(ctx context.Context, id string) error {
	return c.doJSON(ctx, "delete outfit", http.MethodDelete, "/saved_outfits/"+url.PathEscape(id), nil, nil)
}

// Suggest asks the backend to complete the current selection.
func (c *Client) Suggest(ctx context.Context, selection models.SelectionState) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	in := models.SuggestIn{SelectedItems: selection}
	if err := c.doJSON(ctx, "suggest outfit", http.MethodPost, "/suggest", in, &items); err != nil {
		return nil, err
	}
	return normalizeItems(items), nil
}

// SuggestAny asks for a suggestion without sending a selection.
func (c *Client) SuggestAny(ctx context.Context) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	if err := c.doJSON(ctx, "suggest outfit", http.MethodGet, "/suggest", nil, &items); err != nil {
		return nil, err
	}
	return normalizeItems(items), nil
}

// SaveOutfit stores items with date rendered as RFC 3339 in UTC.
func (c *Client) SaveOutfit(ctx context.Context, items []models.ClothingItem, date time.Time) (*models.CreatedOut, error) {
	var out models.CreatedOut
	in := models.SaveOutfitIn{Items: items, Date: date.UTC().Format(time.RFC3339Nano)}
	if err := c.doJSON(ctx, "save outfit", http.MethodPost, "/save-outfit", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in interface{}, out interface{}) error {
	if in == nil {
		return c.do(ctx, op, method, path, nil, "", out)
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	return c.do(ctx, op, method, path, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Warnf("%s %s failed", method, path)
		return &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debugf("%s %s returned %d: %s", method, path, resp.StatusCode, string(data))
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error interface{} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg, ok := payload.Error.(string); ok {
		return msg
	}
	return ""
}

type analysisWire struct {
	Description *string         `json:"description"`
	Tags        json.RawMessage `json:"tags"`
	ImageURI    string          `json:"image_uri"`
}

// normalize applies the defaults: missing or empty description becomes the
// placeholder and a non-array tags value becomes an empty list. Non-string
// array elements are dropped.
func (w analysisWire) normalize() *models.ClothingDetails {
	details := &models.ClothingDetails{
		Description:    PlaceholderDescription,
		Tags:           []string{},
		StoredImageURI: w.ImageURI,
	}
	if w.Description != nil && *w.Description != "" {
		details.Description = *w.Description
	}
	var raw []interface{}
	if err := json.Unmarshal(w.Tags, &raw); err == nil {
		for _, v := range raw {
			if tag, ok := v.(string); ok {
				details.Tags = append(details.Tags, tag)
			}
		}
	}
	return details
}

func normalizeItems(items []models.ClothingItem) []models.ClothingItem {
	if items == nil {
		return []models.ClothingItem{}
	}
	for i := range items {
		if items[i].Tags == nil {
			items[i].Tags = models.Tags{}
		}
	}
	return items
}
