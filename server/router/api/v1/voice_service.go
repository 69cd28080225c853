package v1

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ttsRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type ttsResponse struct {
	AudioContent string `json:"audioContent"` // base64 MPEG
}

// TextToSpeech synthesizes speech for the given text.
func (s *APIV1Service) TextToSpeech(c echo.Context) error {
	ctx := c.Request().Context()

	request := &ttsRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}
	if request.Text == "" {
		return replyError(c, http.StatusBadRequest, "text is required")
	}
	if !s.Voice.IsConfigured() {
		return replyError(c, http.StatusServiceUnavailable, "voice service not configured")
	}

	audio, err := s.Voice.Synthesize(ctx, request.Text, request.Voice)
	if err != nil {
		return replyError(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, &ttsResponse{
		AudioContent: base64.StdEncoding.EncodeToString(audio),
	})
}

type transcribeRequest struct {
	Audio    string `json:"audio"` // base64 recording
	Filename string `json:"filename"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe converts an uploaded recording to text.
func (s *APIV1Service) Transcribe(c echo.Context) error {
	ctx := c.Request().Context()

	request := &transcribeRequest{}
	if err := c.Bind(request); err != nil {
		return replyError(c, http.StatusBadRequest, "malformed request")
	}
	audio, err := base64.StdEncoding.DecodeString(request.Audio)
	if err != nil || len(audio) == 0 {
		return replyError(c, http.StatusBadRequest, "audio must be base64 encoded")
	}
	if !s.Voice.IsConfigured() {
		return replyError(c, http.StatusServiceUnavailable, "voice service not configured")
	}

	filename := request.Filename
	if filename == "" {
		filename = "recording.webm"
	}
	text, err := s.Voice.Transcribe(ctx, audio, filename)
	if err != nil {
		return replyError(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, &transcribeResponse{Text: text})
}
