package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	speechmodel "github.com/makialabs/makia-oracle/backend/internal/model/speech"
)

type stubSynthesizer struct {
	audio []byte
	err   error
}

func (s *stubSynthesizer) Synthesize(context.Context, string, speechmodel.VoiceConfig) ([]byte, error) {
	return s.audio, s.err
}

func TestAudioWriterStoresArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio") // does not exist yet
	writer := NewAudioWriter(&stubSynthesizer{audio: []byte("mp3")}, dir)

	url, err := writer.Synthesize(context.Background(), "hello", speechmodel.VoiceConfig{AudioEncoding: "mp3"})
	if err != nil {
		t.Fatalf("Synthesize err: %v", err)
	}
	if !strings.HasPrefix(url, "/audio/response_") || !strings.HasSuffix(url, ".mp3") {
		t.Fatalf("unexpected audio url: %q", url)
	}

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/audio/")))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(stored) != "mp3" {
		t.Fatalf("unexpected artifact content: %q", stored)
	}
}

func TestAudioWriterUniqueNames(t *testing.T) {
	writer := NewAudioWriter(&stubSynthesizer{audio: []byte("x")}, t.TempDir())

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		url, err := writer.Synthesize(context.Background(), "hi", speechmodel.VoiceConfig{})
		if err != nil {
			t.Fatalf("Synthesize err: %v", err)
		}
		if _, dup := seen[url]; dup {
			t.Fatalf("duplicate artifact name: %s", url)
		}
		seen[url] = struct{}{}
	}
}

func TestAudioWriterPropagatesSynthesisError(t *testing.T) {
	writer := NewAudioWriter(&stubSynthesizer{err: ErrSynthesis}, t.TempDir())

	if _, err := writer.Synthesize(context.Background(), "hi", speechmodel.VoiceConfig{}); !errors.Is(err, ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
}
