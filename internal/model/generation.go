package model

// Language is the target language for generated captions.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageTamil   Language = "Tamil"
	LanguageHindi   Language = "Hindi"
)

// IsValid checks if the language is supported.
func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageTamil || l == LanguageHindi
}

// Languages lists the supported caption languages.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageTamil, LanguageHindi}
}

// Tone is the voice of a generated post.
type Tone string

const (
	TonePromotional Tone = "Promotional"
	ToneFestive     Tone = "Festive"
	ToneFunny       Tone = "Funny"
	ToneFormal      Tone = "Formal"
)

// IsValid checks if the tone is supported.
func (t Tone) IsValid() bool {
	switch t {
	case TonePromotional, ToneFestive, ToneFunny, ToneFormal:
		return true
	}
	return false
}

// Tones lists the supported post tones.
func Tones() []Tone {
	return []Tone{TonePromotional, ToneFestive, ToneFunny, ToneFormal}
}

// Caption is one generated post option: text plus a hashtag string.
type Caption struct {
	Caption  string `json:"caption"`
	Hashtags string `json:"hashtags"`
}

// GenerationResult is the assembled output of one generation request.
// ImageURL is empty when image generation failed or was skipped; the
// captions are still valid in that case (degraded result).
type GenerationResult struct {
	Captions []Caption
	ImageURL string
}
