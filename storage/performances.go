package storage

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/madihg/singulars/logging"
)

type PerformanceStorage interface {
	Get(ctx context.Context, id string) (*Performance, error)
	GetBySlug(ctx context.Context, slug string) (*Performance, error)
	GetAll(ctx context.Context) ([]*Performance, error)
	Put(ctx context.Context, performance *Performance) error
	UpdateStatus(ctx context.Context, id string, status string) error
}

type DynamoPerformanceStorage struct {
	Client    *dynamodb.Client
	TableName string
}

// SlugIndex is the GSI resolving the public URL slug to a performance.
const slugIndexName = "SlugIndex"

func (s *DynamoPerformanceStorage) Get(ctx context.Context, id string) (*Performance, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("PERFORMANCE: failed to marshal key for ID %s: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("PERFORMANCE: GetItem for ID %s failed: %v", id, err)
		return nil, classifyServiceError(err)
	}
	if out.Item == nil {
		return nil, ErrPerformanceNotFound
	}

	var performance Performance
	if err := attributevalue.UnmarshalMap(out.Item, &performance); err != nil {
		logging.Log.Errorf("PERFORMANCE: failed to unmarshal performance: %v", err)
		return nil, err
	}
	return &performance, nil
}

func (s *DynamoPerformanceStorage) GetBySlug(ctx context.Context, slug string) (*Performance, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		IndexName:              aws.String(slugIndexName),
		KeyConditionExpression: aws.String("Slug = :slug"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":slug": &types.AttributeValueMemberS{Value: slug},
		},
	})
	if err != nil {
		logging.Log.Errorf("PERFORMANCE: slug query for %s failed: %v", slug, err)
		return nil, classifyServiceError(err)
	}
	if len(out.Items) == 0 {
		return nil, ErrPerformanceNotFound
	}

	var performance Performance
	if err := attributevalue.UnmarshalMap(out.Items[0], &performance); err != nil {
		logging.Log.Errorf("PERFORMANCE: failed to unmarshal performance for slug %s: %v", slug, err)
		return nil, err
	}
	return &performance, nil
}

func (s *DynamoPerformanceStorage) GetAll(ctx context.Context) ([]*Performance, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("PERFORMANCE: scan failed: %v", err)
		return nil, classifyServiceError(err)
	}

	var performances []*Performance
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &performances); err != nil {
		logging.Log.Errorf("PERFORMANCE: failed to unmarshal performance list: %v", err)
		return nil, err
	}
	return performances, nil
}

// Put upserts; the seeding controller owns natural-key resolution.
func (s *DynamoPerformanceStorage) Put(ctx context.Context, performance *Performance) error {
	item, err := attributevalue.MarshalMap(performance)
	if err != nil {
		logging.Log.Errorf("PERFORMANCE: failed to marshal performance: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("PERFORMANCE: failed to put performance %s: %v", performance.Slug, err)
		return classifyServiceError(err)
	}
	return nil
}

func (s *DynamoPerformanceStorage) UpdateStatus(ctx context.Context, id string, status string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("PERFORMANCE: failed to marshal key for ID %s: %v", id, err)
		return err
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &s.TableName,
		Key:                 key,
		UpdateExpression:    aws.String("SET #status = :status"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "Status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return ErrPerformanceNotFound
		}
		logging.Log.Errorf("PERFORMANCE: failed to update status for %s: %v", id, err)
		return classifyServiceError(err)
	}
	return nil
}
