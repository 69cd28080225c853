package elevenlabs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVoiceID(t *testing.T) {
	tests := []struct {
		name  string
		voice string
		want  string
	}{
		{name: "known voice", voice: "sarah", want: "EXAVITQu4vr4xnSDxMaL"},
		{name: "case insensitive", voice: "Sarah", want: "EXAVITQu4vr4xnSDxMaL"},
		{name: "unknown falls back to aria", voice: "nobody", want: "9BWtsMINqrJLrRacOk9x"},
		{name: "empty falls back to aria", voice: "", want: "9BWtsMINqrJLrRacOk9x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, VoiceID(tt.voice))
		})
	}
}

func TestSynthesizeValidation(t *testing.T) {
	c := NewClient("")
	_, err := c.Synthesize(context.Background(), "", "aria")
	require.ErrorContains(t, err, "text is required")

	_, err = c.Synthesize(context.Background(), "hello", "aria")
	require.ErrorContains(t, err, "not configured")
}

func TestTranscribeValidation(t *testing.T) {
	c := NewClient("")
	_, err := c.Transcribe(context.Background(), nil, "clip.webm")
	require.ErrorContains(t, err, "audio is required")

	_, err = c.Transcribe(context.Background(), []byte{1}, "clip.webm")
	require.ErrorContains(t, err, "not configured")
}
