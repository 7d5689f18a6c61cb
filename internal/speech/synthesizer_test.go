package speech

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePollyAPI struct {
	lastInput *polly.SynthesizeSpeechInput
	err       error
}

func (f *fakePollyAPI) SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &polly.SynthesizeSpeechOutput{AudioStream: io.NopCloser(strings.NewReader("mp3-bytes"))}, nil
}

type fakeVoiceStore struct {
	url     string
	stored  string
	content string
}

func (f *fakeVoiceStore) Store(ctx context.Context, audio io.Reader, contentType string) (string, error) {
	data, _ := io.ReadAll(audio)
	f.stored = string(data)
	f.content = contentType
	return f.url, nil
}

func TestSynthesizeSelectsVoiceByLanguage(t *testing.T) {
	tests := []struct {
		lang       string
		wantVoice  pollytypes.VoiceId
		wantEngine pollytypes.Engine
	}{
		{"en-US", pollytypes.VoiceIdJoanna, pollytypes.EngineNeural},
		{"ur-PK", pollytypes.VoiceIdAditi, pollytypes.EngineStandard},
		{"ar-SA", pollytypes.VoiceIdZeina, pollytypes.EngineStandard},
		{"fr-FR", pollytypes.VoiceIdLea, pollytypes.EngineNeural},
		{"xx-XX", pollytypes.VoiceIdJoanna, pollytypes.EngineNeural},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			api := &fakePollyAPI{}
			store := &fakeVoiceStore{url: "https://bucket.example/voice.mp3"}
			s := NewPollySynthesizer(api, store, nil)

			url, err := s.Synthesize(context.Background(), "Your flight is booked", tt.lang)

			require.NoError(t, err)
			assert.Equal(t, "https://bucket.example/voice.mp3", url)
			assert.Equal(t, tt.wantVoice, api.lastInput.VoiceId)
			assert.Equal(t, tt.wantEngine, api.lastInput.Engine)
		})
	}
}

func TestSynthesizeStoresAudio(t *testing.T) {
	api := &fakePollyAPI{}
	store := &fakeVoiceStore{url: "https://bucket.example/voice.mp3"}
	s := NewPollySynthesizer(api, store, nil)

	_, err := s.Synthesize(context.Background(), "hello", "en-US")

	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", store.stored)
	assert.Equal(t, "audio/mpeg", store.content)
}

func TestCleanForSpeech(t *testing.T) {
	got := CleanForSpeech("✈️ Flight found!\n\n🛫 LHE → ATH\n💰 Price: 412.50 EUR")

	assert.Equal(t, "flight Flight found! departure LHE to ATH price Price: 412.50 EUR", got)
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	s := NewPollySynthesizer(&fakePollyAPI{}, &fakeVoiceStore{}, nil)

	_, err := s.Synthesize(context.Background(), "🎉", "en-US")

	assert.Error(t, err)
}
