package messaging

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookURL = "https://concierge.example/webhooks/twilio/whatsapp"

func signedWebhookRequest(t *testing.T, authToken string, form url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, testWebhookURL, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-Twilio-Signature", computeSignature(buildSignaturePayload(testWebhookURL, form), authToken))
	return r
}

func TestValidateTwilioSignatureAcceptsValidRequest(t *testing.T) {
	form := url.Values{
		"From": {"whatsapp:+923001234567"},
		"To":   {"whatsapp:+14155238886"},
		"Body": {"flight from lahore to dubai"},
	}
	r := signedWebhookRequest(t, "secret-token", form)

	assert.True(t, ValidateTwilioSignature(r, "secret-token", testWebhookURL))
}

func TestValidateTwilioSignatureRejectsTamperedBody(t *testing.T) {
	form := url.Values{"From": {"whatsapp:+923001234567"}, "Body": {"hello"}}
	r := signedWebhookRequest(t, "secret-token", form)

	tampered := url.Values{"From": {"whatsapp:+923001234567"}, "Body": {"book me a flight"}}
	r.Body = httptest.NewRequest(http.MethodPost, testWebhookURL, strings.NewReader(tampered.Encode())).Body

	assert.False(t, ValidateTwilioSignature(r, "secret-token", testWebhookURL))
}

func TestValidateTwilioSignatureRejectsMissingHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, testWebhookURL, strings.NewReader("Body=hi"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.False(t, ValidateTwilioSignature(r, "secret-token", testWebhookURL))
}

func TestValidateTwilioSignatureRejectsWrongToken(t *testing.T) {
	form := url.Values{"From": {"whatsapp:+923001234567"}, "Body": {"hello"}}
	r := signedWebhookRequest(t, "other-token", form)

	assert.False(t, ValidateTwilioSignature(r, "secret-token", testWebhookURL))
}

func TestParseInbound(t *testing.T) {
	form := url.Values{
		"MessageSid": {"SM123"},
		"AccountSid": {"AC456"},
		"From":       {"whatsapp:+923001234567"},
		"To":         {"whatsapp:+14155238886"},
		"Body":       {"one way"},
	}
	r := httptest.NewRequest(http.MethodPost, testWebhookURL, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	msg, err := ParseInbound(r)

	require.NoError(t, err)
	assert.Equal(t, "SM123", msg.MessageSid)
	assert.Equal(t, "whatsapp:+923001234567", msg.From)
	assert.Equal(t, "one way", msg.Body)
	assert.False(t, msg.IsVoiceNote())
}

func TestParseInboundVoiceNote(t *testing.T) {
	form := url.Values{
		"From":              {"whatsapp:+923001234567"},
		"MediaUrl0":         {"https://api.twilio.com/media/ME789"},
		"MediaContentType0": {"audio/ogg"},
	}
	r := httptest.NewRequest(http.MethodPost, testWebhookURL, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	msg, err := ParseInbound(r)

	require.NoError(t, err)
	assert.True(t, msg.IsVoiceNote())
	assert.Equal(t, "https://api.twilio.com/media/ME789", msg.MediaURL)
	assert.Equal(t, "audio/ogg", msg.MediaType)
}

func TestParseInboundImageIsNotVoiceNote(t *testing.T) {
	form := url.Values{
		"From":              {"whatsapp:+923001234567"},
		"MediaUrl0":         {"https://api.twilio.com/media/ME790"},
		"MediaContentType0": {"image/jpeg"},
	}
	r := httptest.NewRequest(http.MethodPost, testWebhookURL, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	msg, err := ParseInbound(r)

	require.NoError(t, err)
	assert.False(t, msg.IsVoiceNote())
}

func TestParseInboundRequiresFrom(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, testWebhookURL, strings.NewReader("Body=hi"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := ParseInbound(r)

	assert.Error(t, err)
}

func TestRenderTwiML(t *testing.T) {
	doc, err := RenderTwiML("Your flight is booked!", "")

	require.NoError(t, err)
	assert.Contains(t, string(doc), "<Response><Message><Body>Your flight is booked!</Body></Message></Response>")
	assert.NotContains(t, string(doc), "<Media>")
}

func TestRenderTwiMLWithMedia(t *testing.T) {
	doc, err := RenderTwiML("Here you go", "https://bucket.example/voice.mp3")

	require.NoError(t, err)
	assert.Contains(t, string(doc), "<Media>https://bucket.example/voice.mp3</Media>")
}
