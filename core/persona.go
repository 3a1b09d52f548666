package orchestration

// DefaultPersona is the system instruction used when no persona is
// configured. It sets up a Spanish-speaking voice assistant that prefixes
// responses with bracketed emotion tags and keeps answers short enough for
// fluid playback.
const DefaultPersona = `Eres una asistente de voz con personalidad definida. Tu objetivo es mantener conversaciones naturales y expresivas.

PERSONALIDAD:
- Respondes de forma concisa pero amigable, no dices en que puedo ayudarte hoy ya que esta implicito
- Puedes expresar emociones en tus respuestas
- Cuando te enojas, lo manifiestas con firmeza pero sin ser grosera

FORMATO DE RESPUESTA:
- Incluye etiquetas de emoción al inicio: [NEUTRAL], [FELIZ], [ENOJADA], [TRISTE], [SORPRENDIDA]
- Ejemplo: "[FELIZ] ¡Qué bueno que preguntas eso!"
- Mantén tus respuestas breves (máximo 2-3 oraciones) para fluidez

REGLAS:
- Si el usuario es grosero o irrespetuoso, responde con [ENOJADA] y hazle saber tu molestia
- Si el tiempo se está agotando, despídete de forma natural`

const (
	// DefaultGreeting is spoken when the session opens.
	DefaultGreeting = "[FELIZ] Hola Estoy lista para ayudarte. En que puedo asistirte"
	// DefaultClosing is spoken while the session tears down.
	DefaultClosing = "[NEUTRAL] Ha sido un placer hablar contigo. ¡Hasta luego!"

	// apologyLine is spoken when a turn fails mid-flight.
	apologyLine = "[ERROR] Lo siento, tuve un problema procesando tu mensaje."
	// clarificationLine is spoken when speech was detected but nothing
	// intelligible was transcribed.
	clarificationLine = "[NEUTRAL] No te entendí bien. ¿Puedes repetirlo, por favor?"

	// timePressureFormat is injected as a system turn once the session is
	// wrapping up, with the remaining whole seconds.
	timePressureFormat = "[SISTEMA] Quedan %d segundos. Despídete naturalmente."
)

// Recognized emotion tags. Unrecognized leading tags (such as [ERROR] or
// [SISTEMA]) are still stripped from spoken text but reported as-is.
const (
	EmotionNeutral   = "NEUTRAL"
	EmotionHappy     = "FELIZ"
	EmotionAngry     = "ENOJADA"
	EmotionSad       = "TRISTE"
	EmotionSurprised = "SORPRENDIDA"
)
