package speech

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/tazaticket/flight-concierge/pkg/logging"
)

type s3UploadAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

const defaultVoiceURLTTL = time.Hour

// S3VoiceStore uploads synthesized audio to a bucket and hands out presigned
// GET URLs with a bounded lifetime.
type S3VoiceStore struct {
	uploader s3UploadAPI
	presign  s3PresignAPI
	bucket   string
	urlTTL   time.Duration
	logger   *logging.Logger
}

func NewS3VoiceStore(uploader s3UploadAPI, presign s3PresignAPI, bucket string, urlTTL time.Duration, logger *logging.Logger) *S3VoiceStore {
	if uploader == nil || presign == nil {
		panic("speech: s3 clients cannot be nil")
	}
	if urlTTL <= 0 {
		urlTTL = defaultVoiceURLTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &S3VoiceStore{
		uploader: uploader,
		presign:  presign,
		bucket:   bucket,
		urlTTL:   urlTTL,
		logger:   logger,
	}
}

// Store uploads the audio under a unique key and returns a presigned URL.
func (s *S3VoiceStore) Store(ctx context.Context, audio io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("voice-replies/%s/%s.mp3", time.Now().UTC().Format("2006-01-02"), uuid.NewString())

	_, err := s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        audio,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("speech: failed to upload audio: %w", err)
	}

	presigned, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.urlTTL
	})
	if err != nil {
		return "", fmt.Errorf("speech: failed to presign audio url: %w", err)
	}

	s.logger.Debug("voice reply stored", "bucket", s.bucket, "key", key)
	return presigned.URL, nil
}
