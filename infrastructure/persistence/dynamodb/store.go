// Package dynamodb persists dataset snapshots as one DynamoDB item per
// dataset.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/entities"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// API is the subset of the DynamoDB client the store calls.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

const snapshotSK = "SNAPSHOT"

// recordItem mirrors entities.Record with DynamoDB attribute names.
type recordItem struct {
	Question string `dynamodbav:"question"`
	Answer   string `dynamodbav:"answer"`
	Detail   string `dynamodbav:"detail"`
}

// snapshotItem represents the DynamoDB item structure for a dataset
type snapshotItem struct {
	PK         string                  `dynamodbav:"PK"`
	SK         string                  `dynamodbav:"SK"`
	EntityType string                  `dynamodbav:"EntityType"`
	Dataset    string                  `dynamodbav:"Dataset"`
	Categories map[string][]recordItem `dynamodbav:"Categories"`
	Records    int                     `dynamodbav:"Records"`
	UpdatedAt  string                  `dynamodbav:"UpdatedAt"`
}

// Store implements ports.SnapshotStore on a single table keyed by PK/SK.
type Store struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewStore creates a new DynamoDB snapshot store
func NewStore(client API, tableName string, logger *zap.Logger) *Store {
	return &Store{client: client, tableName: tableName, logger: logger}
}

func partitionKey(dataset valueobjects.DatasetName) string {
	return fmt.Sprintf("DATASET#%s", dataset)
}

func (s *Store) Load(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: partitionKey(dataset)},
			"SK": &types.AttributeValueMemberS{Value: snapshotSK},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	if len(out.Item) == 0 {
		return aggregates.Snapshot{}, pkgerrors.NewNotFoundError("snapshot " + string(dataset))
	}

	var item snapshotItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}

	lists := make(map[valueobjects.CategoryKey][]entities.Record, len(item.Categories))
	for cat, records := range item.Categories {
		list := make([]entities.Record, len(records))
		for i, r := range records {
			list[i] = entities.Record{Question: r.Question, Answer: r.Answer, Detail: r.Detail}
		}
		lists[valueobjects.CategoryKey(cat)] = list
	}
	return aggregates.NewSnapshot(lists), nil
}

func (s *Store) Save(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	item := snapshotItem{
		PK:         partitionKey(dataset),
		SK:         snapshotSK,
		EntityType: "SNAPSHOT",
		Dataset:    string(dataset),
		Categories: make(map[string][]recordItem),
		Records:    snap.Count(),
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	for _, cat := range snap.Categories() {
		list := snap.List(cat)
		records := make([]recordItem, len(list))
		for i, r := range list {
			records[i] = recordItem{Question: r.Question, Answer: r.Answer, Detail: r.Detail}
		}
		item.Categories[string(cat)] = records
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}

	s.logger.Debug("Saved snapshot to DynamoDB",
		zap.String("dataset", string(dataset)),
		zap.Int("records", item.Records),
	)
	return nil
}
