package controller

import (
	"context"
	"encoding/base64"

	"github.com/m-mizutani/goerr/v2"
)

// AudioGenerator drives speech-to-text. Speech synthesis happens on the
// client's own synthesizer and never reaches the backend.
type AudioGenerator struct {
	functions  Functions
	transcribe Action[string]
}

// NewAudioGenerator creates an AudioGenerator.
func NewAudioGenerator(functions Functions) *AudioGenerator {
	return &AudioGenerator{functions: functions}
}

// Transcribe sends raw audio bytes of the given MIME type for transcription.
func (g *AudioGenerator) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", goerr.Wrap(ErrEmptyInput, "please select an audio file")
	}

	encoded := base64.StdEncoding.EncodeToString(audio)
	return g.transcribe.Run(ctx, func(ctx context.Context) (string, error) {
		resp, err := g.functions.SpeechToText(ctx, encoded, mimeType)
		if err != nil {
			return "", goerr.Wrap(err, "failed to transcribe audio")
		}
		return resp.Text, nil
	})
}

// State returns the transcription state.
func (g *AudioGenerator) State() State {
	return g.transcribe.State()
}
