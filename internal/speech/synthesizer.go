package speech

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/tazaticket/flight-concierge/pkg/logging"
)

type pollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// VoiceStore persists synthesized audio and returns a URL a messaging channel
// can fetch it from.
type VoiceStore interface {
	Store(ctx context.Context, audio io.Reader, contentType string) (string, error)
}

type pollyVoice struct {
	voiceID pollytypes.VoiceId
	engine  pollytypes.Engine
}

// Voice selection per language. Urdu has no Polly voice, so Aditi (hi-IN)
// carries it; she handles Urdu passably given the shared vocabulary.
var voicesByLanguage = map[string]pollyVoice{
	"en": {pollytypes.VoiceIdJoanna, pollytypes.EngineNeural},
	"ar": {pollytypes.VoiceIdZeina, pollytypes.EngineStandard},
	"ur": {pollytypes.VoiceIdAditi, pollytypes.EngineStandard},
	"hi": {pollytypes.VoiceIdAditi, pollytypes.EngineStandard},
	"es": {pollytypes.VoiceIdLupe, pollytypes.EngineNeural},
	"fr": {pollytypes.VoiceIdLea, pollytypes.EngineNeural},
	"de": {pollytypes.VoiceIdMarlene, pollytypes.EngineStandard},
	"it": {pollytypes.VoiceIdCarla, pollytypes.EngineStandard},
	"pt": {pollytypes.VoiceIdInes, pollytypes.EngineStandard},
	"ru": {pollytypes.VoiceIdTatyana, pollytypes.EngineStandard},
	"ja": {pollytypes.VoiceIdTakumi, pollytypes.EngineNeural},
	"ko": {pollytypes.VoiceIdSeoyeon, pollytypes.EngineNeural},
	"zh": {pollytypes.VoiceIdZhiyu, pollytypes.EngineStandard},
	"tr": {pollytypes.VoiceIdFiliz, pollytypes.EngineStandard},
}

var emojiReplacements = []struct{ emoji, spoken string }{
	{"✈️", "flight"},
	{"🛫", "departure"},
	{"🛬", "arrival"},
	{"📅", "date"},
	{"💰", "price"},
	{"🏢", "airline"},
	{"🔄", "stops"},
	{"🧳", "baggage"},
	{"👥", "passengers"},
	{"🔍", "searching"},
}

var nonSpeechRunes = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE0F}]`)

// PollySynthesizer renders reply text as MP3 speech and stores it for
// delivery.
type PollySynthesizer struct {
	api    pollyAPI
	store  VoiceStore
	logger *logging.Logger
}

func NewPollySynthesizer(api pollyAPI, store VoiceStore, logger *logging.Logger) *PollySynthesizer {
	if api == nil {
		panic("speech: polly client cannot be nil")
	}
	if store == nil {
		panic("speech: voice store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PollySynthesizer{api: api, store: store, logger: logger}
}

// Synthesize produces speech for the text in the given BCP-47 language and
// returns the stored audio's URL.
func (s *PollySynthesizer) Synthesize(ctx context.Context, text, lang string) (string, error) {
	voice := voiceForLanguage(lang)
	spoken := CleanForSpeech(text)
	if strings.TrimSpace(spoken) == "" {
		return "", fmt.Errorf("speech: nothing to synthesize")
	}

	out, err := s.api.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(spoken),
		OutputFormat: pollytypes.OutputFormatMp3,
		VoiceId:      voice.voiceID,
		Engine:       voice.engine,
		TextType:     pollytypes.TextTypeText,
	})
	if err != nil {
		return "", fmt.Errorf("speech: synthesis failed: %w", err)
	}
	defer out.AudioStream.Close()

	url, err := s.store.Store(ctx, out.AudioStream, "audio/mpeg")
	if err != nil {
		return "", err
	}

	s.logger.Debug("reply synthesized", "language", lang, "voice", string(voice.voiceID))
	return url, nil
}

func voiceForLanguage(lang string) pollyVoice {
	base := strings.ToLower(lang)
	if idx := strings.IndexAny(base, "-_"); idx > 0 {
		base = base[:idx]
	}
	if voice, ok := voicesByLanguage[base]; ok {
		return voice
	}
	return voicesByLanguage["en"]
}

// CleanForSpeech replaces meaningful emojis with words and strips the rest so
// the voice does not read out symbol names.
func CleanForSpeech(text string) string {
	for _, r := range emojiReplacements {
		text = strings.ReplaceAll(text, r.emoji, r.spoken)
	}
	text = nonSpeechRunes.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "→", " to ")
	return strings.Join(strings.Fields(text), " ")
}
