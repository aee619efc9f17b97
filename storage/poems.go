package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/madihg/singulars/logging"
)

type PoemStorage interface {
	Get(ctx context.Context, id string) (*Poem, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Poem, error)
	GetPair(ctx context.Context, performanceID, themeSlug string) ([]*Poem, error)
	GetByPerformance(ctx context.Context, performanceID string) ([]*Poem, error)
	Put(ctx context.Context, poem *Poem) error
	ResetCount(ctx context.Context, id string) error
}

type DynamoPoemStorage struct {
	Client    *dynamodb.Client
	TableName string
}

// PerformanceThemeIndex groups poems into pairs: one partition per
// performance, sorted by theme slug.
const performanceThemeIndexName = "PerformanceThemeIndex"

func (s *DynamoPoemStorage) Get(ctx context.Context, id string) (*Poem, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("POEM: failed to marshal key for ID %s: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("POEM: GetItem for ID %s failed: %v", id, err)
		return nil, classifyServiceError(err)
	}
	if out.Item == nil {
		return nil, ErrPoemNotFound
	}

	var poem Poem
	if err := attributevalue.UnmarshalMap(out.Item, &poem); err != nil {
		logging.Log.Errorf("POEM: failed to unmarshal poem: %v", err)
		return nil, err
	}
	return &poem, nil
}

func (s *DynamoPoemStorage) GetByIDs(ctx context.Context, ids []string) ([]*Poem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: id},
		})
	}

	out, err := s.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			s.TableName: {Keys: keys},
		},
	})
	if err != nil {
		logging.Log.Errorf("POEM: batch get for %d poems failed: %v", len(ids), err)
		return nil, classifyServiceError(err)
	}

	var poems []*Poem
	if err := attributevalue.UnmarshalListOfMaps(out.Responses[s.TableName], &poems); err != nil {
		logging.Log.Errorf("POEM: failed to unmarshal poem batch: %v", err)
		return nil, err
	}
	return poems, nil
}

func (s *DynamoPoemStorage) GetPair(ctx context.Context, performanceID, themeSlug string) ([]*Poem, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		IndexName:              aws.String(performanceThemeIndexName),
		KeyConditionExpression: aws.String("PerformanceID = :pid AND ThemeSlug = :theme"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid":   &types.AttributeValueMemberS{Value: performanceID},
			":theme": &types.AttributeValueMemberS{Value: themeSlug},
		},
	})
	if err != nil {
		logging.Log.Errorf("POEM: pair query for %s/%s failed: %v", performanceID, themeSlug, err)
		return nil, classifyServiceError(err)
	}

	var poems []*Poem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &poems); err != nil {
		logging.Log.Errorf("POEM: failed to unmarshal pair for %s/%s: %v", performanceID, themeSlug, err)
		return nil, err
	}
	return poems, nil
}

func (s *DynamoPoemStorage) GetByPerformance(ctx context.Context, performanceID string) ([]*Poem, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		IndexName:              aws.String(performanceThemeIndexName),
		KeyConditionExpression: aws.String("PerformanceID = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: performanceID},
		},
	})
	if err != nil {
		logging.Log.Errorf("POEM: query by performance %s failed: %v", performanceID, err)
		return nil, classifyServiceError(err)
	}

	var poems []*Poem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &poems); err != nil {
		logging.Log.Errorf("POEM: failed to unmarshal poems for performance %s: %v", performanceID, err)
		return nil, err
	}
	return poems, nil
}

// Put upserts a poem. The vote counter is only ever touched here at seed time;
// after that the transactional cast path is the sole writer.
func (s *DynamoPoemStorage) Put(ctx context.Context, poem *Poem) error {
	item, err := attributevalue.MarshalMap(poem)
	if err != nil {
		logging.Log.Errorf("POEM: failed to marshal poem: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("POEM: failed to put poem %s: %v", poem.ID, err)
		return classifyServiceError(err)
	}
	return nil
}

func (s *DynamoPoemStorage) ResetCount(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("POEM: failed to marshal key for ID %s: %v", id, err)
		return err
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &s.TableName,
		Key:              key,
		UpdateExpression: aws.String("SET VoteCount = :zero"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
		},
	})
	if err != nil {
		logging.Log.Errorf("POEM: failed to reset count for %s: %v", id, err)
		return classifyServiceError(err)
	}
	return nil
}
