package tutor

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/makialabs/makia-oracle/backend/internal/analysis/sentiment"
	"github.com/makialabs/makia-oracle/backend/internal/model/conversation"
	"github.com/makialabs/makia-oracle/backend/internal/model/profile"
	speechmodel "github.com/makialabs/makia-oracle/backend/internal/model/speech"
	"github.com/makialabs/makia-oracle/backend/internal/service/session"
)

// Validation failures surfaced to the caller as client faults.
var (
	ErrEmptyAudio     = errors.New("no audio file received")
	ErrNoSpeech       = errors.New("no voice detected")
	ErrEmptyMessage   = errors.New("empty message")
	ErrUnknownProfile = errors.New("unknown tutor profile")
)

// Reward policy: voice turns earn a base amount plus a bonus when the
// learner sounds confused; text turns earn a flat amount.
const (
	voiceBasePoints = 50
	confusedBonus   = 25
	textTurnPoints  = 25
)

// apologyReply replaces the tutor reply when generation fails. The turn
// still completes so the learner always gets an answer.
const apologyReply = "Sorry, there was an error processing your request."

// Transcriber converts audio bytes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, encodingHint string) (string, error)
}

// Generator produces a tutor reply for the user message.
type Generator interface {
	Generate(ctx context.Context, prof profile.TutorProfile, userText string, label sentiment.Label) (string, error)
}

// SpeechWriter renders reply text to a stored audio artifact and returns its
// serving path.
type SpeechWriter interface {
	Synthesize(ctx context.Context, text string, voice speechmodel.VoiceConfig) (string, error)
}

// Service sequences one conversation turn: transcription (voice only),
// sentiment classification, reply generation, speech synthesis (voice only)
// and session recording. The session store is injected at construction and
// is the only shared mutable state.
type Service struct {
	profiles     profile.Store
	sessions     *session.Store
	transcriber  Transcriber
	generator    Generator
	speechWriter SpeechWriter
}

// NewService wires the pipeline dependencies.
func NewService(profiles profile.Store, sessions *session.Store, transcriber Transcriber, generator Generator, speechWriter SpeechWriter) *Service {
	return &Service{
		profiles:     profiles,
		sessions:     sessions,
		transcriber:  transcriber,
		generator:    generator,
		speechWriter: speechWriter,
	}
}

// VoiceResult is the outcome of a completed voice turn.
type VoiceResult struct {
	Stage       Stage           `json:"-"`
	Transcript  string          `json:"transcription"`
	Reply       string          `json:"response"`
	AudioURL    string          `json:"audioUrl"`
	Sentiment   sentiment.Label `json:"sentiment"`
	Points      int             `json:"pointsEarned"`
	ProfileName string          `json:"professor"`
}

// TextResult is the outcome of a completed text turn.
type TextResult struct {
	Stage       Stage           `json:"-"`
	Reply       string          `json:"response"`
	Sentiment   sentiment.Label `json:"sentiment"`
	Points      int             `json:"pointsEarned"`
	ProfileName string          `json:"professor"`
}

// VoiceTurn runs the full voice pipeline. Transcription and synthesis
// failures abort the turn; generation failures are recovered with the
// apology reply so synthesis and recording still happen. No session state is
// touched unless every preceding stage succeeded.
func (s *Service) VoiceTurn(ctx context.Context, audio []byte, encodingHint, profileID, sessionID string) (*VoiceResult, error) {
	if len(audio) == 0 {
		return nil, failAt(StageReceived, ErrEmptyAudio)
	}

	prof, ok := s.profiles.FindByID(profileID)
	if !ok {
		return nil, failAt(StageReceived, ErrUnknownProfile)
	}

	transcript, err := s.transcriber.Transcribe(ctx, audio, encodingHint)
	if err != nil {
		return nil, failAt(StageTranscribed, err)
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, failAt(StageTranscribed, ErrNoSpeech)
	}

	label := sentiment.Classify(transcript)

	reply := s.generateReply(ctx, prof, transcript, label)

	audioURL, err := s.speechWriter.Synthesize(ctx, reply, voiceConfig(prof))
	if err != nil {
		return nil, failAt(StageSynthesized, err)
	}

	points := voiceBasePoints
	if label == sentiment.Confused {
		points += confusedBonus
	}

	s.recordTurn(sessionID, profileID, transcript, reply, points)

	return &VoiceResult{
		Stage:       StageCompleted,
		Transcript:  transcript,
		Reply:       reply,
		AudioURL:    audioURL,
		Sentiment:   label,
		Points:      points,
		ProfileName: prof.DisplayName,
	}, nil
}

// TextTurn runs the text pipeline: no transcription, no synthesis, flat
// points.
func (s *Service) TextTurn(ctx context.Context, message, profileID, sessionID string) (*TextResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, failAt(StageReceived, ErrEmptyMessage)
	}

	prof, ok := s.profiles.FindByID(profileID)
	if !ok {
		return nil, failAt(StageReceived, ErrUnknownProfile)
	}

	label := sentiment.Classify(message)

	reply := s.generateReply(ctx, prof, message, label)

	s.recordTurn(sessionID, profileID, message, reply, textTurnPoints)

	return &TextResult{
		Stage:       StageCompleted,
		Reply:       reply,
		Sentiment:   label,
		Points:      textTurnPoints,
		ProfileName: prof.DisplayName,
	}, nil
}

// generateReply never fails: a capability error is logged and replaced with
// the fixed apology so the learner always receives an answer.
func (s *Service) generateReply(ctx context.Context, prof profile.TutorProfile, userText string, label sentiment.Label) string {
	reply, err := s.generator.Generate(ctx, prof, userText, label)
	if err != nil {
		log.Printf("[tutor] generation failed, substituting apology: %v", err)
		return apologyReply
	}
	return reply
}

// recordTurn appends the completed turn to the session. Sessionless turns
// are valid and simply untracked.
func (s *Service) recordTurn(sessionID, profileID, userText, reply string, points int) {
	if sessionID == "" {
		return
	}

	s.sessions.GetOrCreate(sessionID, profileID)
	s.sessions.AppendTurn(sessionID, conversation.Turn{
		ID:        uuid.NewString(),
		UserText:  userText,
		BotText:   reply,
		CreatedAt: time.Now().UTC(),
		Points:    points,
	})
}

func voiceConfig(prof profile.TutorProfile) speechmodel.VoiceConfig {
	return speechmodel.VoiceConfig{
		LanguageCode: prof.Voice.LanguageCode,
		Name:         prof.Voice.Name,
		Gender:       prof.Voice.Gender,
	}
}
