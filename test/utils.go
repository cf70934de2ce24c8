package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"wardrobeapi/models"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func NewJSONRequestRaw(method string, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

// NewMultipartRequest builds a multipart request with one file part.
func NewMultipartRequest(target, field, filename string, content []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, _ := writer.CreateFormFile(field, filename)
		part.Write(content)
	}
	writer.Close()
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// PNGImage returns an encoded w×h image filled with c.
func PNGImage(w, h int, c color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func FakeClothing(db *gorm.DB, imageURI string, tags ...string) *models.ClothingItem {
	item := &models.ClothingItem{
		ID:               uuid.NewString(),
		ImageURI:         imageURI,
		Description:      strings.Join(tags, ", "),
		Tags:             tags,
		ProcessingStatus: "idle",
	}
	db.Create(item)
	return item
}

// AWSProviderMock fakes R2. Uploads are recorded by URL.
type AWSProviderMock struct {
	MockUrl   string
	UploadErr error
	ReadErr   error

	mu        sync.Mutex
	Uploads   map[string][]byte
	readCalls atomic.Int32
}

func (awsService *AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService *AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {
	return fmt.Sprintf("https://fakebucketurl.com/%s", fileName), nil
}

func (awsService *AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	awsService.readCalls.Add(1)
	if awsService.ReadErr != nil {
		return "", awsService.ReadErr
	}
	if awsService.MockUrl != "" {
		return awsService.MockUrl, nil
	}
	return fmt.Sprintf("https://fakebucketurl.com/%s?signed=1", fileKey), nil
}

func (awsService *AWSProviderMock) UploadToPresignedURL(ctx context.Context, url string, fileContent []byte) (string, int, error) {
	if awsService.UploadErr != nil {
		return "", 0, awsService.UploadErr
	}
	awsService.mu.Lock()
	defer awsService.mu.Unlock()
	if awsService.Uploads == nil {
		awsService.Uploads = map[string][]byte{}
	}
	awsService.Uploads[url] = fileContent
	return url, 204, nil
}

// ReadURLCalls counts presigned read URL requests.
func (awsService *AWSProviderMock) ReadURLCalls() int {
	return int(awsService.readCalls.Load())
}

func (awsService *AWSProviderMock) Uploaded(url string) ([]byte, bool) {
	awsService.mu.Lock()
	defer awsService.mu.Unlock()
	data, ok := awsService.Uploads[url]
	return data, ok
}

// URLCacheMock resolves keys without caching.
type URLCacheMock struct {
	Err error
}

func (m URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return "https://cache.example.com/" + objectKey, nil
}

type AnalyzerMock struct {
	Details *models.ClothingDetails
	Err     error

	Calls    int
	MIMEType string
}

func (m *AnalyzerMock) AnalyzeClothing(ctx context.Context, image []byte, mimeType string) (*models.ClothingDetails, error) {
	m.Calls++
	m.MIMEType = mimeType
	if m.Err != nil {
		return nil, m.Err
	}
	details := *m.Details
	return &details, nil
}

// QueueMock records enqueued tasks.
type QueueMock struct {
	mu    sync.Mutex
	Tasks []*asynq.Task
}

func (q *QueueMock) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Tasks = append(q.Tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type(), Payload: task.Payload()}, nil
}
