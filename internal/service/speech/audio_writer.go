package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/makialabs/makia-oracle/backend/internal/model/speech"
)

// AudioWriter synthesizes reply audio and stores it under the configured
// directory, returning a URL path the client can fetch. Every call uses a
// fresh UUID so concurrent syntheses never overwrite each other.
type AudioWriter struct {
	synthesizer Synthesizer
	dir         string
}

// NewAudioWriter wraps a synthesizer with local artifact storage.
func NewAudioWriter(synthesizer Synthesizer, dir string) *AudioWriter {
	return &AudioWriter{synthesizer: synthesizer, dir: dir}
}

// Synthesize renders text with the given voice, writes the audio to disk and
// returns its serving path ("/audio/<name>"). The storage directory is
// created on first use.
func (w *AudioWriter) Synthesize(ctx context.Context, text string, voice speech.VoiceConfig) (string, error) {
	audio, err := w.synthesizer.Synthesize(ctx, text, voice)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create audio dir: %v", ErrSynthesis, err)
	}

	name := fmt.Sprintf("response_%s.%s", uuid.NewString(), fileExtension(voice.AudioEncoding))
	if err := os.WriteFile(filepath.Join(w.dir, name), audio, 0o644); err != nil {
		return "", fmt.Errorf("%w: write audio file: %v", ErrSynthesis, err)
	}

	return "/audio/" + name, nil
}

func fileExtension(encoding string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "mp3":
		return "mp3"
	case "linear16", "wav":
		return "wav"
	case "ogg_opus", "opus":
		return "ogg"
	default:
		return "mp3"
	}
}
