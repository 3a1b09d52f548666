package texttospeech

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips accents",
			input:    "Qué rápido está el día",
			expected: "Que rapido esta el dia",
		},
		{
			name:     "keeps enye",
			input:    "El niño pequeño sueña",
			expected: "El niño pequeño sueña",
		},
		{
			name:     "keeps uppercase enye",
			input:    "AÑO NUEVO",
			expected: "AÑO NUEVO",
		},
		{
			name:     "drops symbols outside the allowed set",
			input:    "¡Hola! ¿Cómo estás? (bien) —creo—",
			expected: "Hola! Como estas? bien creo",
		},
		{
			name:     "keeps basic punctuation and digits",
			input:    "Quedan 30 segundos, adiós.",
			expected: "Quedan 30 segundos, adios.",
		},
		{
			name:     "collapses whitespace runs",
			input:    "hola \t  mundo \n nuevo",
			expected: "hola mundo nuevo",
		},
		{
			name:     "trims leading and trailing whitespace",
			input:    "  hola mundo  ",
			expected: "hola mundo",
		},
		{
			name:     "diaeresis is stripped",
			input:    "pingüino",
			expected: "pinguino",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
