package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscriptionAPI struct {
	resp    openai.AudioResponse
	err     error
	lastReq openai.AudioRequest
}

func (f *fakeTranscriptionAPI) CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error) {
	f.lastReq = request
	return f.resp, f.err
}

func TestTranscribeFetchesMediaWithBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		w.Write([]byte("fake-ogg-bytes"))
	}))
	t.Cleanup(server.Close)

	api := &fakeTranscriptionAPI{resp: openai.AudioResponse{Text: "  lahore to dubai tomorrow  "}}
	tr := NewWhisperTranscriber(api, server.Client(), "AC123", "token", nil)

	text, err := tr.Transcribe(context.Background(), server.URL, "audio/ogg")

	require.NoError(t, err)
	assert.Equal(t, "lahore to dubai tomorrow", text)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "token", gotPass)
	assert.Equal(t, "voice.ogg", api.lastReq.FilePath)
	assert.Equal(t, openai.Whisper1, api.lastReq.Model)
}

func TestTranscribeEmptyTranscriptIsUnintelligible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	}))
	t.Cleanup(server.Close)

	api := &fakeTranscriptionAPI{resp: openai.AudioResponse{Text: "   "}}
	tr := NewWhisperTranscriber(api, server.Client(), "", "", nil)

	_, err := tr.Transcribe(context.Background(), server.URL, "audio/ogg")

	assert.ErrorIs(t, err, ErrUnintelligibleAudio)
}

func TestTranscribeSurfacesMediaErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	tr := NewWhisperTranscriber(&fakeTranscriptionAPI{}, server.Client(), "", "", nil)

	_, err := tr.Transcribe(context.Background(), server.URL, "audio/ogg")

	assert.ErrorContains(t, err, "status 404")
}

func TestTranscribeSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	}))
	t.Cleanup(server.Close)

	api := &fakeTranscriptionAPI{err: errors.New("rate limited")}
	tr := NewWhisperTranscriber(api, server.Client(), "", "", nil)

	_, err := tr.Transcribe(context.Background(), server.URL, "audio/mpeg")

	assert.ErrorContains(t, err, "transcription failed")
}

func TestFileNameForMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		want      string
	}{
		{"audio/ogg; codecs=opus", "voice.ogg"},
		{"audio/mpeg", "voice.mp3"},
		{"audio/wav", "voice.wav"},
		{"audio/mp4", "voice.m4a"},
		{"", "voice.ogg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fileNameForMediaType(tt.mediaType))
	}
}
