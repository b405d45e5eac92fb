package s3

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	puts    map[string]string
	deletes []string
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	body, _ := io.ReadAll(in.Body)
	f.puts[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = string(body)

	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.deletes = append(f.deletes, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))

	return &s3.DeleteObjectOutput{}, nil
}

type memFile struct {
	*strings.Reader
}

func (memFile) Close() error { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.External.S3.APIEndpoint = "https://storage.example"
	cfg.External.S3.PublicDomain = "https://cdn.hotel.test/"
	cfg.External.S3.BucketName = "hotel-assets"

	return cfg
}

func header() *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "suite.png",
		Header:   textproto.MIMEHeader{"Content-Type": {"image/png"}},
	}
}

func TestUploadAndDelete(t *testing.T) {
	objects := &fakeObjects{puts: map[string]string{}}
	store := &storage{client: objects, cfg: testConfig(), otel: otelMocks.NewOtel()}
	ctx := context.Background()

	url, err := store.UploadFile(ctx, "", "room", memFile{strings.NewReader("png-bytes")}, header(), "abc.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.hotel.test/room/abc.png", url)
	assert.Equal(t, "png-bytes", objects.puts["hotel-assets/room/abc.png"])

	name := store.GetObjectNameFromURL("", url)
	assert.Equal(t, "abc.png", name)

	require.NoError(t, store.DeleteFile(ctx, "", "room", name))
	assert.Equal(t, []string{"hotel-assets/room/abc.png"}, objects.deletes)
}

func TestUploadFailure(t *testing.T) {
	store := &storage{client: &fakeObjects{err: errors.New("503")}, cfg: testConfig(), otel: otelMocks.NewOtel()}

	_, err := store.UploadFile(context.Background(), "", "room", memFile{strings.NewReader("x")}, header(), "x.png")
	assert.Error(t, err)
}

func TestDisabledStorage(t *testing.T) {
	store := New(&config.Config{}, otelMocks.NewOtel())
	ctx := context.Background()

	_, err := store.UploadFile(ctx, "", "room", memFile{strings.NewReader("x")}, header(), "x.png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, store.DeleteFile(ctx, "", "room", "x.png"), ErrStorageDisabled)
}

func TestGetObjectNameFromURL(t *testing.T) {
	store := &storage{cfg: testConfig()}

	assert.Equal(t, "a.jpg", store.GetObjectNameFromURL("", "https://storage.example/hotel-assets/menu/a.jpg"))
	assert.Equal(t, "b.jpg", store.GetObjectNameFromURL("", "https://cdn.hotel.test/menu/b.jpg"))
	assert.Empty(t, store.GetObjectNameFromURL("", "https://elsewhere.test/menu/c.jpg"))
	assert.Empty(t, store.GetObjectNameFromURL("", "https://cdn.hotel.test/"))
}

func TestObjectName(t *testing.T) {
	name := ObjectName("Lobby.JPG")

	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotEqual(t, name, ObjectName("Lobby.JPG"))
}
