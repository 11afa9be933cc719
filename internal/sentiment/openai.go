package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spacesedan/sentireport/internal/models"
	"github.com/spacesedan/sentireport/internal/utils"
)

const (
	OPENAI_BATCH_SIZE = 10
	OPENAI_ATTEMPTS   = 3
)

const openAIPrompt = `You are a sentiment analysis service. For every input document, split the text into sentences and score the sentiment of the whole document and of each sentence.

### **STRICT OUTPUT FORMAT**
You MUST return only **valid JSON**, formatted exactly as follows:
{
  "documents": [
    {
      "id": "XXX",
      "sentiment": "positive | neutral | negative | mixed",
      "confidence_scores": {"positive": 0.0, "neutral": 0.0, "negative": 0.0},
      "sentences": [
        {"text": "XXX", "sentiment": "positive | neutral | negative", "confidence_scores": {"positive": 0.0, "neutral": 0.0, "negative": 0.0}}
      ]
    }
  ]
}

### **REQUIREMENTS**
- Return exactly one entry per input document, using the input "id" unchanged.
- Confidence scores are between 0 and 1 and sum to 1.
- Sentence "text" is copied verbatim from the document.
- **No Markdown formatting** (no triple backticks, no explanations).
- **No extra text before or after the JSON output**.
`

type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIAnalyzer asks a chat model for sentiment scores in a fixed JSON shape.
type OpenAIAnalyzer struct {
	Client Completer
}

func NewOpenAIAnalyzer(client Completer) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{Client: client}
}

func (o *OpenAIAnalyzer) Name() string { return "openai" }

func (o *OpenAIAnalyzer) AnalyzeSentiment(ctx context.Context, documents []string, language string) ([]models.DocumentSentiment, error) {
	results := make([]models.DocumentSentiment, len(documents))
	if len(documents) == 0 {
		return results, nil
	}

	inputs := make([]models.OpenAISentimentRequest, 0, len(documents))
	for i, doc := range documents {
		inputs = append(inputs, models.OpenAISentimentRequest{ID: strconv.Itoa(i), Text: doc})
	}

	for _, batch := range utils.Chunk(inputs, OPENAI_BATCH_SIZE) {
		docs, err := o.analyzeBatch(ctx, batch, language)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			idx, _ := strconv.Atoi(doc.ID)
			results[idx] = doc
		}
	}
	return results, nil
}

func (o *OpenAIAnalyzer) analyzeBatch(ctx context.Context, batch []models.OpenAISentimentRequest, language string) ([]models.DocumentSentiment, error) {
	batchBytes, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}
	system := openAIPrompt + fmt.Sprintf("- The documents are written in language %q.\n", language)

	var lastErr error
	for attempt := 1; attempt <= OPENAI_ATTEMPTS; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := o.Client.Complete(ctx, system, string(batchBytes))
		if err != nil {
			return nil, err
		}

		docs, err := parseOpenAIResponse(raw, batch)
		if err == nil {
			return docs, nil
		}
		lastErr = err
		slog.Warn("[OpenAI] Failed to parse sentiment response, retrying",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}
	return nil, fmt.Errorf("invalid model response after %d attempts: %w", OPENAI_ATTEMPTS, lastErr)
}

// parseOpenAIResponse decodes the model output and checks that it covers
// exactly the documents of the batch. Results come back in batch order.
func parseOpenAIResponse(raw string, batch []models.OpenAISentimentRequest) ([]models.DocumentSentiment, error) {
	var resp models.OpenAISentimentResponse
	if err := json.Unmarshal([]byte(cleanOpenAIResponse(raw)), &resp); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(resp.Documents) != len(batch) {
		return nil, fmt.Errorf("expected %d documents, got %d", len(batch), len(resp.Documents))
	}

	byID := make(map[string]models.DocumentSentiment, len(resp.Documents))
	for _, doc := range resp.Documents {
		if !validLabel(doc.Sentiment, true) {
			return nil, fmt.Errorf("document %s: invalid sentiment %q", doc.ID, doc.Sentiment)
		}
		for _, s := range doc.Sentences {
			if !validLabel(s.Sentiment, false) {
				return nil, fmt.Errorf("document %s: invalid sentence sentiment %q", doc.ID, s.Sentiment)
			}
		}
		byID[doc.ID] = doc
	}

	docs := make([]models.DocumentSentiment, 0, len(batch))
	for _, in := range batch {
		doc, ok := byID[in.ID]
		if !ok {
			return nil, fmt.Errorf("document %s missing from response", in.ID)
		}
		if doc.Sentences == nil {
			doc.Sentences = []models.SentenceSentiment{}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func validLabel(l models.Label, allowMixed bool) bool {
	switch l {
	case models.LabelPositive, models.LabelNeutral, models.LabelNegative:
		return true
	case models.LabelMixed:
		return allowMixed
	}
	return false
}

func cleanOpenAIResponse(response string) string {
	response = strings.TrimSpace(response)

	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	// Standardize quotes in case the model outputs curly ones
	response = strings.ReplaceAll(response, "“", `"`)
	response = strings.ReplaceAll(response, "”", `"`)

	return strings.TrimSpace(response)
}
