// Package elevenlabs proxies text-to-speech and speech-to-text calls.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	baseURL      = "https://api.elevenlabs.io/v1"
	ttsModelID   = "eleven_multilingual_v2"
	sttModelID   = "scribe_v1"
	defaultVoice = "aria"
)

// voiceIDs maps friendly voice names to ElevenLabs voice identifiers.
var voiceIDs = map[string]string{
	"aria":      "9BWtsMINqrJLrRacOk9x",
	"roger":     "CwhRBWXzGAHq8TQ4Fs17",
	"sarah":     "EXAVITQu4vr4xnSDxMaL",
	"laura":     "FGY2WhTYpPnrIDTdsKH5",
	"charlie":   "IKne3meq5aSn9XLyUdCD",
	"george":    "JBFqnCBsd6RMkjVDRZzb",
	"callum":    "N2lVS1w4EtoT3dr4eOWO",
	"river":     "SAz9YHcvj6GT2YYXdXww",
	"liam":      "TX3LPaxmHKxFdv7VOQHJ",
	"charlotte": "XB0fDUnXU5powFXDhCwa",
	"alice":     "Xb7hH8MSUJpSbSDYk0k2",
	"matilda":   "XrExE9yKIg1WjnnlVkGX",
	"will":      "bIHbv24MWmeRgasZH58o",
	"jessica":   "cgSgspJ2msm6clMCkdW9",
	"eric":      "cjVigY5qzO86Huf0OWal",
	"chris":     "iP95p4xoKVk53GoZ742B",
	"brian":     "nPczCjzI2devNBz1zQrb",
	"daniel":    "onwK4e9ZLuTAKqWW03F9",
	"lily":      "pFZP5JQG7iQjIQuC4Bku",
	"bill":      "pqHfZKP75CvOlQylNhV4",
}

// VoiceID resolves a friendly voice name, falling back to the default voice.
func VoiceID(name string) string {
	if id, ok := voiceIDs[strings.ToLower(name)]; ok {
		return id
	}
	return voiceIDs[defaultVoice]
}

// Client calls the ElevenLabs REST API.
type Client struct {
	apiKey string
	client *http.Client
}

// NewClient creates an ElevenLabs client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Synthesize converts text to MPEG audio with the named voice.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if text == "" {
		return nil, errors.New("text is required")
	}
	if !c.IsConfigured() {
		return nil, errors.New("elevenlabs api key not configured")
	}

	payload, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": ttsModelID,
		"voice_settings": map[string]any{
			"stability":         0.5,
			"similarity_boost":  0.75,
			"style":             0.0,
			"use_speaker_boost": true,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal tts payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		baseURL+"/text-to-speech/"+VoiceID(voice), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build tts request")
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "tts request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Errorf("elevenlabs api error: %s", string(detail))
	}
	return io.ReadAll(resp.Body)
}

// Transcribe converts an audio recording to text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio is required")
	}
	if !c.IsConfigured() {
		return "", errors.New("elevenlabs api key not configured")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("model_id", sttModelID); err != nil {
		return "", errors.Wrap(err, "failed to write stt field")
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", errors.Wrap(err, "failed to build stt form")
	}
	if _, err := part.Write(audio); err != nil {
		return "", errors.Wrap(err, "failed to write stt audio")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize stt form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/speech-to-text", body)
	if err != nil {
		return "", errors.Wrap(err, "failed to build stt request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "stt request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.Errorf("elevenlabs api error: %s", string(detail))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "failed to decode stt response")
	}
	return parsed.Text, nil
}
