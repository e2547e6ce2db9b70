package speech

import (
	"context"
	"strings"

	"github.com/makialabs/makia-oracle/backend/internal/model/speech"
)

// Transcriber converts raw audio bytes to text through a Recognizer. The
// gateway is asked for the configured base language plus alternatives so it
// can auto-detect between them, with automatic punctuation enabled.
type Transcriber struct {
	recognizer Recognizer
	config     *speech.SpeechConfig
}

// NewTranscriber wraps a recognizer with the service's recognition defaults.
func NewTranscriber(recognizer Recognizer, config *speech.SpeechConfig) *Transcriber {
	return &Transcriber{recognizer: recognizer, config: config}
}

// Transcribe recognizes the audio and joins the recognized segments with
// newlines, preserving recognition order. An empty (after trimming)
// transcript is returned as-is: the caller distinguishes "no speech
// detected" from a capability failure.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, encodingHint string) (string, error) {
	cfg := speech.RecognitionConfig{
		Encoding:                   t.config.Encoding,
		SampleRateHertz:            t.config.SampleRateHertz,
		LanguageCode:               t.config.LanguageCode,
		AlternativeLanguageCodes:   t.config.AlternativeLanguageCodes,
		EnableAutomaticPunctuation: t.config.EnableAutomaticPunctuation,
	}
	if hint := strings.TrimSpace(encodingHint); hint != "" {
		cfg.Encoding = hint
	}

	segments, err := t.recognizer.Recognize(ctx, audio, cfg)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, segment.Text)
	}
	return strings.Join(parts, "\n"), nil
}
