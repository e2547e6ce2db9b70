package speech

// RecognitionConfig parameterizes one speech-to-text request.
type RecognitionConfig struct {
	Encoding                   string   `json:"encoding"`
	SampleRateHertz            int      `json:"sampleRateHertz"`
	LanguageCode               string   `json:"languageCode"`
	AlternativeLanguageCodes   []string `json:"alternativeLanguageCodes,omitempty"`
	EnableAutomaticPunctuation bool     `json:"enableAutomaticPunctuation"`
}

// Segment is one recognized portion of the input audio, in utterance order.
type Segment struct {
	Text       string  `json:"transcript"`
	Confidence float64 `json:"confidence,omitempty"`
}

// VoiceConfig parameterizes one text-to-speech request.
type VoiceConfig struct {
	LanguageCode  string `json:"languageCode"`
	Name          string `json:"name"`
	Gender        string `json:"ssmlGender,omitempty"`
	AudioEncoding string `json:"audioEncoding"`
}
