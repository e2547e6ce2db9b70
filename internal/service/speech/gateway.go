package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/makialabs/makia-oracle/backend/internal/model/speech"
)

// GatewayClient talks to the speech gateway's REST endpoints for both
// recognition and synthesis. It implements Recognizer and Synthesizer.
type GatewayClient struct {
	config     *speech.SpeechConfig
	httpClient *http.Client
}

// NewGatewayClient creates a gateway client using the configured timeout.
func NewGatewayClient(config *speech.SpeechConfig) *GatewayClient {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GatewayClient{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type recognizeRequest struct {
	Audio  recognizeAudio           `json:"audio"`
	Config speech.RecognitionConfig `json:"config"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []speech.Segment `json:"alternatives"`
	} `json:"results"`
}

// Recognize submits base64-encoded audio and returns the top alternative of
// each recognized result, in order.
func (c *GatewayClient) Recognize(ctx context.Context, audio []byte, cfg speech.RecognitionConfig) ([]speech.Segment, error) {
	payload := recognizeRequest{
		Audio:  recognizeAudio{Content: base64.StdEncoding.EncodeToString(audio)},
		Config: cfg,
	}

	var decoded recognizeResponse
	if err := c.post(ctx, "/v1/speech:recognize", payload, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	segments := make([]speech.Segment, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		segments = append(segments, result.Alternatives[0])
	}
	return segments, nil
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice       speech.VoiceConfig `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize renders text with the requested voice and returns the decoded
// audio bytes.
func (c *GatewayClient) Synthesize(ctx context.Context, text string, voice speech.VoiceConfig) ([]byte, error) {
	var payload synthesizeRequest
	payload.Input.Text = text
	payload.Voice = voice
	payload.AudioConfig.AudioEncoding = voice.AudioEncoding
	if payload.AudioConfig.AudioEncoding == "" {
		payload.AudioConfig.AudioEncoding = c.config.AudioEncoding
	}

	var decoded synthesizeResponse
	if err := c.post(ctx, "/v1/text:synthesize", payload, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	audio, err := base64.StdEncoding.DecodeString(decoded.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed audio content: %v", ErrSynthesis, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: gateway returned no audio", ErrSynthesis)
	}
	return audio, nil
}

func (c *GatewayClient) post(ctx context.Context, path string, payload, out any) error {
	if strings.TrimSpace(c.config.BaseURL) == "" {
		return fmt.Errorf("speech gateway base URL is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %v", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %v", err)
	}
	return nil
}
