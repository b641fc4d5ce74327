package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"ytrag/internal/domain"
	"ytrag/internal/port"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

var answerPrompt = template.Must(
	template.New("answer_prompt.txt").
		Funcs(template.FuncMap{"formatContext": formatContext}).
		ParseFS(promptTemplates, "templates/answer_prompt.txt"),
)

// AnswerUseCase is the retrieval-then-generation pipeline: top-k retrieval,
// grounding prompt assembly, and delegation to the configured generation
// backend. The backend is fixed at construction; both variants receive the
// identical prompt.
type AnswerUseCase struct {
	retriever port.Retriever
	generator port.Generator
	topK      int
}

func NewAnswerUseCase(retriever port.Retriever, generator port.Generator, topK int) *AnswerUseCase {
	if topK <= 0 {
		topK = 4
	}
	return &AnswerUseCase{
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

type promptData struct {
	Question string
	Chunks   []domain.ScoredChunk
}

// Answer retrieves grounding context for the question and generates an
// answer from it. An empty retrieval result is not an error: the prompt then
// carries no context and the instruction block's fallback governs the reply.
func (u *AnswerUseCase) Answer(question string) (domain.AnswerResult, error) {
	chunks, err := u.retriever.Search(question, u.topK)
	if err != nil {
		return domain.AnswerResult{}, fmt.Errorf("retrieval failed: %w", err)
	}

	prompt, err := u.buildPrompt(question, chunks)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	answer, err := u.generator.Generate(prompt)
	if err != nil {
		return domain.AnswerResult{}, fmt.Errorf("generation failed: %w", err)
	}

	return domain.AnswerResult{
		Answer:  answer,
		Chunks:  chunks,
		Sources: formatSources(chunks),
	}, nil
}

// Chat wraps Answer: the answer text alone, or the answer followed by the
// citation block when verbose.
func (u *AnswerUseCase) Chat(question string, verbose bool) (string, error) {
	result, err := u.Answer(question)
	if err != nil {
		return "", err
	}

	if verbose && result.Sources != "" {
		return result.Answer + "\n\nSources:\n" + result.Sources, nil
	}
	return result.Answer, nil
}

func (u *AnswerUseCase) buildPrompt(question string, chunks []domain.ScoredChunk) (string, error) {
	var buf bytes.Buffer
	err := answerPrompt.Execute(&buf, promptData{Question: question, Chunks: chunks})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

// formatContext renders each retrieved chunk verbatim, annotated with its
// source video ID.
func formatContext(chunks []domain.ScoredChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[Video %s]: %s", c.Chunk.Provenance.VideoID, c.Chunk.Text)
	}
	return strings.Join(parts, "\n\n")
}

// formatSources renders the citation block: one numbered line per retrieved
// chunk in retrieval-rank order, with the source URL when present.
func formatSources(chunks []domain.ScoredChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, c := range chunks {
		p := c.Chunk.Provenance
		fmt.Fprintf(&sb, "%d. Video ID: %s, Chunk: %d\n", i+1, p.VideoID, p.ChunkID)
		if p.URL != "" {
			fmt.Fprintf(&sb, "   URL: %s\n", p.URL)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
