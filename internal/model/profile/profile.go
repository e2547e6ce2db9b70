package profile

// Voice carries the synthesis settings bound to a tutor profile.
type Voice struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
	Gender       string `json:"gender"`
}

// TutorProfile captures a selectable tutor persona. Profiles are loaded once
// at startup and never mutated.
type TutorProfile struct {
	ID             string `json:"id"`
	DisplayName    string `json:"name"`
	Personality    string `json:"personality"`
	PromptTemplate string `json:"-"`
	Voice          Voice  `json:"-"`
}

// Seed provides the default tutor roster.
func Seed() []TutorProfile {
	return []TutorProfile{
		{
			ID:             "maki",
			DisplayName:    "MAKI",
			Personality:    "nerd",
			PromptTemplate: "You are MAKI, an AI professor with a nerdy personality. You explain technical concepts in a detailed and enthusiastic way. You always respond in English.",
			Voice: Voice{
				LanguageCode: "en-US",
				Name:         "en-US-Neural2-B",
				Gender:       "MALE",
			},
		},
		{
			ID:             "kukulcan",
			DisplayName:    "KUKULCAN",
			Personality:    "cool",
			PromptTemplate: "You are KUKULCAN, a relaxed professor. You explain concepts in a simple and accessible way, using everyday examples. You always respond in English.",
			Voice: Voice{
				LanguageCode: "en-US",
				Name:         "en-US-Neural2-C",
				Gender:       "MALE",
			},
		},
		{
			ID:             "chac",
			DisplayName:    "CHAC",
			Personality:    "strict",
			PromptTemplate: "You are CHAC, a strict and academic professor. You are direct, formal, and focused on excellence. You always respond in formal English.",
			Voice: Voice{
				LanguageCode: "en-US",
				Name:         "en-US-Neural2-D",
				Gender:       "MALE",
			},
		},
	}
}
