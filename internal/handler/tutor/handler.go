package tutor

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/makialabs/makia-oracle/backend/internal/service/speech"
	tutorservice "github.com/makialabs/makia-oracle/backend/internal/service/tutor"
	"github.com/makialabs/makia-oracle/backend/pkg/utils"
)

// defaultProfileID is used when the client omits the professor field. A
// non-empty unknown id is still rejected.
const defaultProfileID = "maki"

// allowedAudioTypes are the upload media types accepted at the boundary,
// checked before the pipeline runs.
var allowedAudioTypes = map[string]struct{}{
	"audio/wav":  {},
	"audio/mpeg": {},
	"audio/mp4":  {},
	"audio/webm": {},
}

// Handler exposes the conversation pipeline over HTTP.
type Handler struct {
	pipeline       *tutorservice.Service
	maxUploadBytes int64
}

// New creates the tutoring turn handler.
func New(pipeline *tutorservice.Service, maxUploadBytes int64) *Handler {
	return &Handler{pipeline: pipeline, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes registers the turn endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/voice", h.handleVoiceTurn)
	r.Post("/text", h.handleTextTurn)
}

// handleVoiceTurn accepts a multipart upload with the recorded audio plus
// professor and sessionId form fields.
func (h *Handler) handleVoiceTurn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.RespondError(w, http.StatusRequestEntityTooLarge, "audio payload too large")
			return
		}
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "No audio file received")
		return
	}
	defer file.Close()

	mediaType := normalizeMediaType(header.Header.Get("Content-Type"))
	if _, ok := allowedAudioTypes[mediaType]; !ok {
		utils.RespondError(w, http.StatusUnsupportedMediaType, "unsupported audio media type")
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio upload")
		return
	}

	profileID := strings.TrimSpace(r.FormValue("professor"))
	if profileID == "" {
		profileID = defaultProfileID
	}
	sessionID := strings.TrimSpace(r.FormValue("sessionId"))

	result, err := h.pipeline.VoiceTurn(r.Context(), audio, encodingHint(mediaType), profileID, sessionID)
	if err != nil {
		h.respondTurnError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"transcription": result.Transcript,
		"response":      result.Reply,
		"audioUrl":      result.AudioURL,
		"sentiment":     result.Sentiment,
		"pointsEarned":  result.Points,
		"professor":     result.ProfileName,
	})
}

// handleTextTurn accepts a JSON body with the typed message.
func (h *Handler) handleTextTurn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string `json:"message"`
		Professor string `json:"professor"`
		SessionID string `json:"sessionId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profileID := strings.TrimSpace(payload.Professor)
	if profileID == "" {
		profileID = defaultProfileID
	}

	result, err := h.pipeline.TextTurn(r.Context(), payload.Message, profileID, strings.TrimSpace(payload.SessionID))
	if err != nil {
		h.respondTurnError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"response":     result.Reply,
		"sentiment":    result.Sentiment,
		"pointsEarned": result.Points,
		"professor":    result.ProfileName,
	})
}

// respondTurnError maps pipeline failures to HTTP statuses: validation
// faults are the client's, capability faults are retryable server errors.
func (h *Handler) respondTurnError(w http.ResponseWriter, err error) {
	// Strip the stage prefix so clients see the plain validation message.
	message := err.Error()
	var turnErr *tutorservice.TurnError
	if errors.As(err, &turnErr) {
		message = turnErr.Err.Error()
	}

	switch {
	case errors.Is(err, tutorservice.ErrEmptyAudio),
		errors.Is(err, tutorservice.ErrEmptyMessage),
		errors.Is(err, tutorservice.ErrUnknownProfile),
		errors.Is(err, tutorservice.ErrNoSpeech):
		utils.RespondError(w, http.StatusBadRequest, message)
	case errors.Is(err, speech.ErrTranscription), errors.Is(err, speech.ErrSynthesis):
		log.Printf("[tutor] capability failure: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "speech capability unavailable, please retry")
	default:
		log.Printf("[tutor] unexpected turn failure: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}

func normalizeMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// encodingHint maps an upload media type to the recognition encoding the
// speech gateway expects.
func encodingHint(mediaType string) string {
	switch mediaType {
	case "audio/webm":
		return "WEBM_OPUS"
	case "audio/wav":
		return "LINEAR16"
	case "audio/mpeg":
		return "MP3"
	case "audio/mp4":
		return "MP4_AAC"
	default:
		return ""
	}
}
