// Package messaging handles the WhatsApp channel: Twilio webhook
// verification, parsing and TwiML replies.
package messaging

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// ValidateTwilioSignature validates that a request came from Twilio
func ValidateTwilioSignature(r *http.Request, authToken, webhookURL string) bool {
	signature := r.Header.Get("X-Twilio-Signature")
	if signature == "" {
		return false
	}

	// Parse form data
	if err := r.ParseForm(); err != nil {
		return false
	}

	// Build the signature payload
	payload := buildSignaturePayload(webhookURL, r.PostForm)

	// Compute expected signature
	expectedSignature := computeSignature(payload, authToken)

	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// buildSignaturePayload creates the payload string for signature verification
func buildSignaturePayload(url string, params url.Values) string {
	// Get all keys and sort them
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Build payload: URL + sorted params
	var payload strings.Builder
	payload.WriteString(url)

	for _, key := range keys {
		for _, value := range params[key] {
			payload.WriteString(key)
			payload.WriteString(value)
		}
	}

	return payload.String()
}

// computeSignature computes the HMAC-SHA1 signature
func computeSignature(data, key string) string {
	h := hmac.New(sha1.New, []byte(key))
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// InboundMessage is a parsed WhatsApp webhook from Twilio.
type InboundMessage struct {
	MessageSid string
	AccountSid string
	From       string
	To         string
	Body       string
	MediaURL   string
	MediaType  string
}

// IsVoiceNote reports whether the message carries an audio attachment.
func (m *InboundMessage) IsVoiceNote() bool {
	return m.MediaURL != "" && strings.HasPrefix(m.MediaType, "audio/")
}

// ParseInbound parses a Twilio WhatsApp webhook request. Only the first media
// item matters: WhatsApp voice notes arrive as a single audio attachment.
func ParseInbound(r *http.Request) (*InboundMessage, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse form: %w", err)
	}

	msg := &InboundMessage{
		MessageSid: r.FormValue("MessageSid"),
		AccountSid: r.FormValue("AccountSid"),
		From:       r.FormValue("From"),
		To:         r.FormValue("To"),
		Body:       r.FormValue("Body"),
		MediaURL:   r.FormValue("MediaUrl0"),
		MediaType:  r.FormValue("MediaContentType0"),
	}
	if msg.From == "" {
		return nil, fmt.Errorf("messaging: webhook missing From")
	}

	return msg, nil
}

type twimlResponse struct {
	XMLName xml.Name     `xml:"Response"`
	Message twimlMessage `xml:"Message"`
}

type twimlMessage struct {
	Body  string `xml:"Body"`
	Media string `xml:"Media,omitempty"`
}

// RenderTwiML builds the webhook reply document. mediaURL is optional and
// attaches a voice reply.
func RenderTwiML(body, mediaURL string) ([]byte, error) {
	doc, err := xml.Marshal(twimlResponse{Message: twimlMessage{Body: body, Media: mediaURL}})
	if err != nil {
		return nil, fmt.Errorf("messaging: failed to render twiml: %w", err)
	}
	return append([]byte(xml.Header), doc...), nil
}
