package speech

// SpeechConfig carries the speech-gateway connection and defaults shared by
// the recognition and synthesis clients.
type SpeechConfig struct {
	BaseURL string
	APIKey  string

	// Recognition defaults.
	Encoding                   string
	SampleRateHertz            int
	LanguageCode               string
	AlternativeLanguageCodes   []string
	EnableAutomaticPunctuation bool

	// Synthesis defaults. AudioDir is where rendered artifacts are stored.
	AudioEncoding string
	AudioDir      string

	// Timeout in seconds for a single gateway call.
	Timeout int
}
