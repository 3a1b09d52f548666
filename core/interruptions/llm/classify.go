package llm

import (
	"context"
	_ "embed"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/interruptions"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

//go:embed classifier.tmpl
var classifierSystemPrompt string

type LLMWithStructuredPrompt interface {
	PromptWithStructure(ctx context.Context, prompt string, outputSchema any, opts ...llms.StructuredPromptOption) error
}

// Classifier reads a post-interruption transcript in conversation context
// and decides whether it continues the interrupted request, replaces it,
// or is noise.
type Classifier struct {
	llm LLMWithStructuredPrompt
}

func NewClassifier(classificationLLM LLMWithStructuredPrompt) *Classifier {
	return &Classifier{llm: classificationLLM}
}

type classification struct {
	Type string `json:"type" jsonschema:"title=Type,description=How the utterance relates to the interrupted response,enum=continuation,enum=new_prompt,enum=noise"`
}

func (c *Classifier) Classify(ctx context.Context, utterance string, history []llms.Turn) (interruptions.Classification, error) {
	ctx, span := tracer.Start(ctx, "classify interruption")
	defer span.End()

	resp := classification{}
	if err := c.llm.PromptWithStructure(ctx, utterance,
		&resp,
		llms.WithSystemPrompt(classifierSystemPrompt),
		llms.WithTurns(history...),
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to prompt interruption classifier: %w", err)
	}

	result, err := toClassification(resp.Type)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("interruption.classification", string(result)))
	return result, nil
}

func toClassification(classification string) (interruptions.Classification, error) {
	switch classification {
	case "continuation":
		return interruptions.ClassificationContinuation, nil
	case "new_prompt":
		return interruptions.ClassificationNewPrompt, nil
	case "noise":
		return interruptions.ClassificationNoise, nil
	default:
		return "", fmt.Errorf("unknown interruption classification: %s", classification)
	}
}
