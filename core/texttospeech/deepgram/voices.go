package deepgram

type deepgramVoice string

const (
	VoiceThaliaEn   deepgramVoice = "aura-2-thalia-en"
	VoiceAsteriaEn  deepgramVoice = "aura-2-asteria-en"
	VoiceApolloEn   deepgramVoice = "aura-2-apollo-en"
	VoiceOrionEn    deepgramVoice = "aura-2-orion-en"
	VoiceCelesteEs  deepgramVoice = "aura-2-celeste-es"
	VoiceEstrellaEs deepgramVoice = "aura-2-estrella-es"
	VoiceNestorEs   deepgramVoice = "aura-2-nestor-es"
	VoiceDianaEs    deepgramVoice = "aura-2-diana-es"
)

const defaultVoice = VoiceThaliaEn

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{
		VoiceThaliaEn,
		VoiceAsteriaEn,
		VoiceApolloEn,
		VoiceOrionEn,
		VoiceCelesteEs,
		VoiceEstrellaEs,
		VoiceNestorEs,
		VoiceDianaEs,
	}
}

// ParseVoice resolves a voice name to a known voice, allowing config files
// to select voices by string.
func ParseVoice(name string) (deepgramVoice, bool) {
	for _, voice := range GetAvailableVoices() {
		if string(voice) == name {
			return voice, true
		}
	}
	return "", false
}
