package speech

import (
	"context"
	"errors"

	"github.com/makialabs/makia-oracle/backend/internal/model/speech"
)

var (
	// ErrTranscription marks a speech-to-text capability failure: the
	// gateway was unreachable or rejected the audio.
	ErrTranscription = errors.New("speech recognition failed")

	// ErrSynthesis marks a text-to-speech capability failure.
	ErrSynthesis = errors.New("speech synthesis failed")
)

// Recognizer is the speech-to-text capability consumed by the Transcriber.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, cfg speech.RecognitionConfig) ([]speech.Segment, error)
}

// Synthesizer is the text-to-speech capability consumed by the AudioWriter.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice speech.VoiceConfig) ([]byte, error)
}
