package db

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/sentireport/internal/models"
	"github.com/spacesedan/sentireport/internal/utils"
)

const (
	MAX_BATCH_SIZE      = 25
	MAX_BATCH_RETRIES   = 3
	UNPROCESSED_BACKOFF = 500 * time.Millisecond
	RESULT_TTL          = 30 * 24 * time.Hour
)

type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// ResultStore writes one item per analyzed document, keyed by run id and
// document index.
type ResultStore struct {
	Client  DynamoDBAPI
	Table   string
	TTL     time.Duration
	Backoff time.Duration
}

func NewResultStore(client DynamoDBAPI, table string) *ResultStore {
	return &ResultStore{
		Client:  client,
		Table:   table,
		TTL:     RESULT_TTL,
		Backoff: UNPROCESSED_BACKOFF,
	}
}

func (s *ResultStore) Name() string { return "dynamodb" }

func (s *ResultStore) StoreResults(ctx context.Context, docs []models.AnalyzedDocument) error {
	if len(docs) == 0 {
		return nil
	}
	expiresAt := time.Now().Add(s.TTL)

	for _, batch := range utils.Chunk(docs, MAX_BATCH_SIZE) {
		if err := ctx.Err(); err != nil {
			slog.Warn("[DynamoDB] context canceled")
			return err
		}

		writeRequests := make([]types.WriteRequest, 0, len(batch))
		for _, doc := range batch {
			item, err := ItemFromDocument(doc, expiresAt)
			if err != nil {
				return err
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored sentiment results",
		slog.String("table", s.Table),
		slog.Int("count", len(docs)))
	return nil
}

func (s *ResultStore) writeBatch(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.Table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write sentiment results: %w", err)
	}

	retryCount := 0
	backoff := s.Backoff
	for len(out.UnprocessedItems) > 0 && retryCount < MAX_BATCH_RETRIES {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed sentiment items...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.Table])))

		out, err = s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error %w", err)
		}
		retryCount++
	}

	if remaining := len(out.UnprocessedItems[s.Table]); remaining > 0 {
		slog.Error("[DynamoDB] Some sentiment items failed after retries",
			slog.Int("remaining", remaining))
		return fmt.Errorf("[DynamoDB] %d items unprocessed after %d retries", remaining, MAX_BATCH_RETRIES)
	}
	return nil
}

// ItemFromDocument builds the table item for one analyzed document.
func ItemFromDocument(doc models.AnalyzedDocument, expiresAt time.Time) (map[string]types.AttributeValue, error) {
	sentences, err := attributevalue.Marshal(doc.Sentences)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] marshal sentences: %w", err)
	}
	scores, err := attributevalue.Marshal(doc.ConfidenceScores)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] marshal confidence scores: %w", err)
	}

	labels := make([]string, 0, len(doc.SentenceLabels))
	for _, l := range doc.SentenceLabels {
		labels = append(labels, string(l))
	}
	sentenceLabels, err := attributevalue.Marshal(labels)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] marshal sentence labels: %w", err)
	}

	item := map[string]types.AttributeValue{
		"run_id":            &types.AttributeValueMemberS{Value: doc.RunID},
		"doc_index":         &types.AttributeValueMemberN{Value: strconv.Itoa(doc.Index)},
		"query":             &types.AttributeValueMemberS{Value: doc.Query},
		"backend":           &types.AttributeValueMemberS{Value: doc.Backend},
		"language":          &types.AttributeValueMemberS{Value: doc.Language},
		"sentiment_label":   &types.AttributeValueMemberS{Value: string(doc.Sentiment)},
		"confidence_scores": scores,
		"sentences":         sentences,
		"sentence_labels":   sentenceLabels,
		"created_at":        &types.AttributeValueMemberN{Value: strconv.FormatInt(doc.CreatedAt.Unix(), 10)},
		"ttl":               &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt.Unix(), 10)},
	}
	if doc.Text != "" {
		item["text"] = &types.AttributeValueMemberS{Value: doc.Text}
	}
	return item, nil
}
