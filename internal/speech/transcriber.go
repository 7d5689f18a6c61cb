// Package speech handles the voice modality: transcribing inbound voice
// notes, synthesizing replies and serving the audio over presigned URLs.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tazaticket/flight-concierge/pkg/logging"
)

// ErrUnintelligibleAudio means the audio was fetched but produced no usable
// transcript.
var ErrUnintelligibleAudio = errors.New("speech: unintelligible audio")

type transcriptionAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperTranscriber downloads a voice note and transcribes it with Whisper.
// Twilio media URLs require HTTP basic auth with the account credentials.
type WhisperTranscriber struct {
	api        transcriptionAPI
	httpClient *http.Client
	authUser   string
	authPass   string
	logger     *logging.Logger
}

func NewWhisperTranscriber(api transcriptionAPI, httpClient *http.Client, authUser, authPass string, logger *logging.Logger) *WhisperTranscriber {
	if api == nil {
		panic("speech: transcription client cannot be nil")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WhisperTranscriber{
		api:        api,
		httpClient: httpClient,
		authUser:   authUser,
		authPass:   authPass,
		logger:     logger,
	}
}

// Transcribe fetches the media and returns the spoken text.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, mediaURL, mediaType string) (string, error) {
	if strings.TrimSpace(mediaURL) == "" {
		return "", errors.New("speech: media url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return "", fmt.Errorf("speech: failed to build media request: %w", err)
	}
	if t.authUser != "" {
		req.SetBasicAuth(t.authUser, t.authPass)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: failed to fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech: media fetch returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, 25<<20))
	if err != nil {
		return "", fmt.Errorf("speech: failed to read media: %w", err)
	}
	if len(audio) == 0 {
		return "", ErrUnintelligibleAudio
	}

	result, err := t.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: fileNameForMediaType(mediaType),
	})
	if err != nil {
		return "", fmt.Errorf("speech: transcription failed: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", ErrUnintelligibleAudio
	}
	t.logger.Debug("voice note transcribed", "chars", len(text))
	return text, nil
}

// fileNameForMediaType gives Whisper a filename hint matching the container.
func fileNameForMediaType(mediaType string) string {
	switch {
	case strings.Contains(mediaType, "ogg"):
		return "voice.ogg"
	case strings.Contains(mediaType, "mpeg"), strings.Contains(mediaType, "mp3"):
		return "voice.mp3"
	case strings.Contains(mediaType, "wav"):
		return "voice.wav"
	case strings.Contains(mediaType, "mp4"), strings.Contains(mediaType, "m4a"):
		return "voice.m4a"
	default:
		return "voice.ogg"
	}
}
