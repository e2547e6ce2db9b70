package tutor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/makialabs/makia-oracle/backend/internal/analysis/sentiment"
	"github.com/makialabs/makia-oracle/backend/internal/model/profile"
	speechmodel "github.com/makialabs/makia-oracle/backend/internal/model/speech"
	"github.com/makialabs/makia-oracle/backend/internal/service/session"
	"github.com/makialabs/makia-oracle/backend/internal/service/speech"
	"github.com/makialabs/makia-oracle/backend/internal/service/tutor"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return f.text, f.err
}

type fakeGenerator struct {
	reply string
	err   error

	lastProfile profile.TutorProfile
	lastLabel   sentiment.Label
}

func (f *fakeGenerator) Generate(_ context.Context, prof profile.TutorProfile, _ string, label sentiment.Label) (string, error) {
	f.lastProfile = prof
	f.lastLabel = label
	return f.reply, f.err
}

type fakeSpeechWriter struct {
	url      string
	err      error
	lastText string
}

func (f *fakeSpeechWriter) Synthesize(_ context.Context, text string, _ speechmodel.VoiceConfig) (string, error) {
	f.lastText = text
	return f.url, f.err
}

type fixture struct {
	svc         *tutor.Service
	store       *session.Store
	transcriber *fakeTranscriber
	generator   *fakeGenerator
	writer      *fakeSpeechWriter
}

func newFixture() *fixture {
	f := &fixture{
		store:       session.NewStore(),
		transcriber: &fakeTranscriber{text: "I don't understand recursion"},
		generator:   &fakeGenerator{reply: "Let me explain."},
		writer:      &fakeSpeechWriter{url: "/audio/response_x.mp3"},
	}
	profiles := profile.NewMemoryStore(profile.Seed())
	f.svc = tutor.NewService(profiles, f.store, f.transcriber, f.generator, f.writer)
	return f
}

func TestTextTurnFlatPoints(t *testing.T) {
	f := newFixture()

	result, err := f.svc.TextTurn(context.Background(), "What is AI?", "maki", "s1")
	if err != nil {
		t.Fatalf("TextTurn err: %v", err)
	}
	// "what is" is a curiosity marker.
	if result.Sentiment != sentiment.Curious {
		t.Fatalf("unexpected sentiment: %s", result.Sentiment)
	}
	if result.Points != 25 {
		t.Fatalf("expected 25 points, got %d", result.Points)
	}
	if result.ProfileName != "MAKI" {
		t.Fatalf("unexpected professor name: %s", result.ProfileName)
	}

	sess, ok := f.store.Get("s1")
	if !ok || len(sess.Turns) != 1 || sess.TotalPoints != 25 {
		t.Fatalf("turn not recorded: %+v", sess)
	}
}

func TestTextTurnPlainMessageIsNeutral(t *testing.T) {
	f := newFixture()

	result, err := f.svc.TextTurn(context.Background(), "Tell me about the weather", "maki", "")
	if err != nil {
		t.Fatalf("TextTurn err: %v", err)
	}
	if result.Sentiment != sentiment.Neutral {
		t.Fatalf("expected neutral, got %s", result.Sentiment)
	}
	if result.Points != 25 {
		t.Fatalf("expected 25 points, got %d", result.Points)
	}
}

func TestTextTurnEmptyMessageRejected(t *testing.T) {
	f := newFixture()

	_, err := f.svc.TextTurn(context.Background(), "   \n\t", "maki", "s1")
	if !errors.Is(err, tutor.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}

	var turnErr *tutor.TurnError
	if !errors.As(err, &turnErr) || turnErr.Stage != tutor.StageReceived {
		t.Fatalf("expected failure at received stage, got %v", err)
	}
	if f.store.Len() != 0 {
		t.Fatal("rejected turn created a session")
	}
}

func TestTextTurnUnknownProfileRejected(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.TextTurn(context.Background(), "hello", "nobody", "s1"); !errors.Is(err, tutor.ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestVoiceTurnConfusedEarnsBonus(t *testing.T) {
	f := newFixture()

	result, err := f.svc.VoiceTurn(context.Background(), []byte("audio"), "WEBM_OPUS", "maki", "s1")
	if err != nil {
		t.Fatalf("VoiceTurn err: %v", err)
	}
	if result.Sentiment != sentiment.Confused {
		t.Fatalf("expected confused, got %s", result.Sentiment)
	}
	if result.Points != 75 {
		t.Fatalf("expected 50+25 points, got %d", result.Points)
	}
	if result.Transcript != "I don't understand recursion" {
		t.Fatalf("unexpected transcript: %q", result.Transcript)
	}
	if result.AudioURL != "/audio/response_x.mp3" {
		t.Fatalf("unexpected audio url: %q", result.AudioURL)
	}
	if f.generator.lastLabel != sentiment.Confused {
		t.Fatalf("generator did not receive sentiment: %s", f.generator.lastLabel)
	}

	sess, _ := f.store.Get("s1")
	if sess.TotalPoints != 75 {
		t.Fatalf("expected 75 session points, got %d", sess.TotalPoints)
	}
}

func TestVoiceTurnEmptyAudioRejected(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.VoiceTurn(context.Background(), nil, "", "maki", "s1"); !errors.Is(err, tutor.ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestVoiceTurnNoSpeechDetected(t *testing.T) {
	f := newFixture()
	f.transcriber.text = "  \n "

	_, err := f.svc.VoiceTurn(context.Background(), []byte("audio"), "", "maki", "s1")
	if !errors.Is(err, tutor.ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech, got %v", err)
	}

	var turnErr *tutor.TurnError
	if !errors.As(err, &turnErr) || turnErr.Stage != tutor.StageTranscribed {
		t.Fatalf("expected failure at transcribed stage, got %v", err)
	}
}

func TestVoiceTurnTranscriptionFailureAborts(t *testing.T) {
	f := newFixture()
	f.transcriber.err = speech.ErrTranscription

	_, err := f.svc.VoiceTurn(context.Background(), []byte("audio"), "", "maki", "s1")
	if !errors.Is(err, speech.ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
	if f.store.Len() != 0 {
		t.Fatal("failed turn mutated session state")
	}
}

func TestVoiceTurnGenerationFailureRecovered(t *testing.T) {
	f := newFixture()
	f.generator.err = errors.New("model unavailable")

	result, err := f.svc.VoiceTurn(context.Background(), []byte("audio"), "", "maki", "s1")
	if err != nil {
		t.Fatalf("generation failure must not abort the turn: %v", err)
	}
	if result.Reply != "Sorry, there was an error processing your request." {
		t.Fatalf("expected apology reply, got %q", result.Reply)
	}
	// The apology is still synthesized so the learner hears something.
	if f.writer.lastText != result.Reply {
		t.Fatalf("apology not synthesized: %q", f.writer.lastText)
	}

	sess, _ := f.store.Get("s1")
	if len(sess.Turns) != 1 {
		t.Fatal("recovered turn not recorded")
	}
}

func TestVoiceTurnSynthesisFailureLeavesSessionUntouched(t *testing.T) {
	f := newFixture()

	// A successful turn first, then a synthesis failure.
	if _, err := f.svc.VoiceTurn(context.Background(), []byte("audio"), "", "maki", "s1"); err != nil {
		t.Fatalf("VoiceTurn err: %v", err)
	}
	before, _ := f.store.Get("s1")

	f.writer.err = speech.ErrSynthesis
	_, err := f.svc.VoiceTurn(context.Background(), []byte("audio"), "", "maki", "s1")
	if !errors.Is(err, speech.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}

	var turnErr *tutor.TurnError
	if !errors.As(err, &turnErr) || turnErr.Stage != tutor.StageSynthesized {
		t.Fatalf("expected failure at synthesized stage, got %v", err)
	}

	after, _ := f.store.Get("s1")
	if len(after.Turns) != len(before.Turns) || after.TotalPoints != before.TotalPoints {
		t.Fatalf("synthesis failure mutated session: before=%+v after=%+v", before, after)
	}
}

func TestSessionlessTurnsAreUntracked(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.VoiceTurn(context.Background(), []byte("audio"), "", "maki", ""); err != nil {
		t.Fatalf("VoiceTurn err: %v", err)
	}
	if f.store.Len() != 0 {
		t.Fatal("sessionless turn created a session")
	}
}
