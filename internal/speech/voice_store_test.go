package speech

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	lastInput *s3.PutObjectInput
	body      string
	err       error
}

func (f *fakeUploader) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastInput = params
	if params.Body != nil {
		data, _ := io.ReadAll(params.Body)
		f.body = string(data)
	}
	return &s3.PutObjectOutput{}, f.err
}

type fakePresigner struct {
	lastKey string
	err     error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.lastKey = *params.Key
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example/" + f.lastKey + "?signed"}, nil
}

func TestStoreUploadsAndPresigns(t *testing.T) {
	uploader := &fakeUploader{}
	presigner := &fakePresigner{}
	store := NewS3VoiceStore(uploader, presigner, "voice-bucket", 0, nil)

	url, err := store.Store(context.Background(), strings.NewReader("mp3-bytes"), "audio/mpeg")

	require.NoError(t, err)
	assert.Equal(t, "voice-bucket", *uploader.lastInput.Bucket)
	assert.Equal(t, "audio/mpeg", *uploader.lastInput.ContentType)
	assert.Equal(t, "mp3-bytes", uploader.body)
	assert.Regexp(t, `^voice-replies/\d{4}-\d{2}-\d{2}/[0-9a-f-]{36}\.mp3$`, presigner.lastKey)
	assert.Contains(t, url, presigner.lastKey)
}

func TestStoreSurfacesUploadErrors(t *testing.T) {
	store := NewS3VoiceStore(&fakeUploader{err: errors.New("denied")}, &fakePresigner{}, "voice-bucket", 0, nil)

	_, err := store.Store(context.Background(), strings.NewReader("x"), "audio/mpeg")

	assert.ErrorContains(t, err, "failed to upload audio")
}

func TestStoreSurfacesPresignErrors(t *testing.T) {
	store := NewS3VoiceStore(&fakeUploader{}, &fakePresigner{err: errors.New("nope")}, "voice-bucket", 0, nil)

	_, err := store.Store(context.Background(), strings.NewReader("x"), "audio/mpeg")

	assert.ErrorContains(t, err, "failed to presign audio url")
}
