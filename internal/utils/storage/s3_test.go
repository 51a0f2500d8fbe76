package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zesto-backend/domain"
)

type recordingClient struct {
	puts    map[string][]byte
	deleted []string
}

func (r *recordingClient) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	r.puts[aws.ToString(params.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (r *recordingClient) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	r.deleted = append(r.deleted, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="receipt_image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["receipt_image"][0]
}

func TestUploadFile(t *testing.T) {
	client := &recordingClient{puts: map[string][]byte{}}
	store := &awsS3{client: client, bucket: "zesto", region: "ap-southeast-1"}

	key, err := store.UploadFile(context.Background(), "receipt-1", fileHeader(t, "scan.JPG", "image/jpeg", []byte("img")), "receipts", AllowImage...)
	require.NoError(t, err)
	assert.Equal(t, "receipts/receipt-1.jpg", key)
	assert.Equal(t, []byte("img"), client.puts[key])

	_, err = store.UploadFile(context.Background(), "receipt-2", fileHeader(t, "scan.pdf", "application/pdf", []byte("pdf")), "receipts", AllowImage...)
	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
}

func TestPublicLinkRoundTrip(t *testing.T) {
	store := &awsS3{client: &recordingClient{}, bucket: "zesto", region: "ap-southeast-1"}

	link := store.GetPublicLinkKey("receipts/a.png")
	assert.Equal(t, "https://zesto.s3.ap-southeast-1.amazonaws.com/receipts/a.png", link)
	assert.Equal(t, "receipts/a.png", store.GetObjectKeyFromLink(link))
	assert.Equal(t, "", store.GetObjectKeyFromLink("https://elsewhere.example.com/a.png"))
}

func TestDeleteFile(t *testing.T) {
	client := &recordingClient{}
	store := &awsS3{client: client, bucket: "zesto", region: "ap-southeast-1"}

	require.NoError(t, store.DeleteFile(context.Background(), "receipts/a.png"))
	assert.Equal(t, []string{"receipts/a.png"}, client.deleted)
}
