package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"videoscribe/internal/models"
	"videoscribe/shared/config"

	"google.golang.org/genai"
)

// ErrProcessingFailed signals that the remote file pipeline ended in its
// terminal failure state. Not retried.
var ErrProcessingFailed = errors.New("audio processing failed")

// RefusalError carries the service's feedback when it declines to produce
// text (safety refusal or similar). Not retried.
type RefusalError struct {
	Feedback string
}

func (e *RefusalError) Error() string {
	return fmt.Sprintf("model refused to generate content. Safety feedback: %s", e.Feedback)
}

const pollInterval = 2 * time.Second

// audioMIMEType is the registered type for the mp3 files the fetcher's
// ffmpeg postprocessor always produces.
const audioMIMEType = "audio/mpeg"

// Analyzer uploads audio to Gemini and extracts the requested sections
// from a single composite generation call.
type Analyzer struct {
	client *genai.Client
	model  string
}

func NewAnalyzer(cfg *config.Config) (*Analyzer, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.AI.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Analyzer{
		client: client,
		model:  cfg.AI.Model,
	}, nil
}

// Analyze uploads the audio file, waits for the remote file to become
// ready, issues one generation call built from the requested options and
// parses the response into labeled sections. Keywords are always
// requested. The poll honors ctx cancellation but sets no deadline of its
// own.
func (a *Analyzer) Analyze(ctx context.Context, audioPath string, options []string) (models.AnalysisResult, error) {
	log.Printf("Uploading file: %s", audioPath)
	file, err := a.client.Files.UploadFromPath(ctx, audioPath, &genai.UploadFileConfig{
		MIMEType: audioMIMEType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}

	for file.State == genai.FileStateProcessing {
		log.Println("Waiting for audio processing...")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
		file, err = a.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to poll file state: %w", err)
		}
	}
	if file.State == genai.FileStateFailed {
		return nil, ErrProcessingFailed
	}

	log.Println("Audio processing complete. Generating content...")

	parts := []*genai.Part{
		genai.NewPartFromURI(file.URI, file.MIMEType),
		genai.NewPartFromText(buildPrompt(options)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		feedback := "no feedback provided"
		if result.PromptFeedback != nil {
			feedback = fmt.Sprintf("%+v", result.PromptFeedback)
		}
		log.Printf("Safety feedback: %s", feedback)
		return nil, &RefusalError{Feedback: feedback}
	}

	return ParseSections(text), nil
}

// buildPrompt assembles the composite instruction payload: a fixed
// preamble, the always-on KEYWORDS directive, then one directive block per
// recognized option in fixed order regardless of input order. Unknown tags
// are ignored.
func buildPrompt(options []string) string {
	requested := make(map[string]bool, len(options))
	for _, opt := range options {
		requested[opt] = true
	}

	parts := []string{
		"You are an expert video analyst and educational content creator.",
		"Analyze the provided audio from a YouTube video and generate the following outputs based on the requested sections.",
		"Please separate your response clearly with headers like '### SECTION_NAME'.",
		"Please include a section ### KEYWORDS at the beginning with a list of 5-10 relevant keywords/tags for this video.",
	}

	if requested["summary"] {
		parts = append(parts, `### SUMMARY
Generate an EXTENSIVE and DETAILED summary of the video content in Spanish.
- Go deep into the details, arguments, and examples provided.
- Do not be brief. Aim for a comprehensive overview that covers all aspects of the video.
- Structure it with clear subheadings.`)
	}
	if requested["transcription_orig"] {
		parts = append(parts, `### TRANSCRIPTION_ORIG
Provide a transcription of the video in its original language.
Identify different speakers (e.g., 'Speaker A', 'Speaker B') if possible.
Do not include timestamps.`)
	}
	if requested["transcription_es"] {
		parts = append(parts, `### TRANSCRIPTION_ES
Provide a transcription of the video translated to Spanish.
Identify different speakers.
Do not include timestamps.`)
	}
	if requested["guide"] {
		parts = append(parts, `### GUIDE
Create a comprehensive Didactic Guide (in Spanish) for the content.
- Structure it as a professional course script or tutorial.
- Section 1: Introduction & Learning Objectives.
- Section 2: Detailed Content Modules (break down the video into logical lessons).
  - For each module, provide a detailed explanation and a text-based schema or infographic description.
- Section 3: Key Takeaways & Conclusion.
- Section 4: Quiz/Self-assessment questions.`)
	}

	parts = append(parts, "Using the provided audio file, generate the response.")

	return strings.Join(parts, "\n")
}
