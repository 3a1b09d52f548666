package orchestration

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// chunkBoundaryPattern marks where streamed text can be cut for
	// synthesis. The punctuation stays with the finished chunk.
	chunkBoundaryPattern = regexp.MustCompile(`[.!?;,]\s+`)
	// emotionTagPattern matches a bracketed tag at the start of a chunk,
	// e.g. "[FELIZ] ¡Hola!".
	emotionTagPattern = regexp.MustCompile(`(?is)^\[(.*?)\]\s*(.*)$`)
)

// maxChunkRunes bounds how much text can pile up without a boundary before
// it is flushed to synthesis anyway.
const maxChunkRunes = 220

// speechChunk is a synthesizable slice of the assistant's response, with
// its leading emotion tag already stripped off.
type speechChunk struct {
	ordinal int
	text    string
	emotion string
}

// chunker cuts the streamed response into speech chunks at sentence
// boundaries, so synthesis can start while the model is still generating.
type chunker struct {
	fragments *fragmentBuffer
}

func newChunker(fragments *fragmentBuffer) *chunker {
	return &chunker{fragments: fragments}
}

func (c *chunker) Chunks(yield func(speechChunk) bool) {
	var pending string
	ordinal := 0

	emit := func(text string) bool {
		chunk, ok := newSpeechChunk(ordinal, text)
		if !ok {
			return true
		}
		ordinal++
		return yield(chunk)
	}

	for fragment := range c.fragments.Fragments {
		pending += fragment

		for {
			loc := chunkBoundaryPattern.FindStringIndex(pending)
			if loc == nil {
				break
			}
			if !emit(pending[:loc[0]+1]) {
				return
			}
			pending = pending[loc[1]:]
		}

		if utf8.RuneCountInString(pending) >= maxChunkRunes {
			if !emit(pending) {
				return
			}
			pending = ""
		}
	}

	emit(pending)
}

// newSpeechChunk trims the raw text and extracts its leading emotion tag.
// Chunks that end up empty are dropped, reported by ok=false.
func newSpeechChunk(ordinal int, text string) (chunk speechChunk, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return speechChunk{}, false
	}

	emotion := EmotionNeutral
	if match := emotionTagPattern.FindStringSubmatch(text); match != nil {
		if tag := strings.TrimSpace(match[1]); tag != "" {
			emotion = strings.ToUpper(tag)
		}
		text = strings.TrimSpace(match[2])
	}
	if text == "" {
		return speechChunk{}, false
	}

	return speechChunk{ordinal: ordinal, text: text, emotion: emotion}, true
}
