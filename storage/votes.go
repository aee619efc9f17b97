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

type VoteStorage interface {
	GetAll(ctx context.Context) ([]*Vote, error)
	GetByFingerprint(ctx context.Context, fingerprint string) ([]*Vote, error)
	Cast(ctx context.Context, vote *Vote) error
	DeleteAll(ctx context.Context) error
}

// DynamoVoteStorage writes votes and poem counters in one transaction, so the
// counter can never drift from the committed vote rows.
type DynamoVoteStorage struct {
	Client         *dynamodb.Client
	TableName      string
	PoemsTableName string
}

func (s *DynamoVoteStorage) GetAll(ctx context.Context) ([]*Vote, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("VOTE: scan failed: %v", err)
		return nil, classifyServiceError(err)
	}

	var votes []*Vote
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &votes); err != nil {
		logging.Log.Errorf("VOTE: failed to unmarshal vote list: %v", err)
		return nil, err
	}
	return votes, nil
}

func (s *DynamoVoteStorage) GetByFingerprint(ctx context.Context, fingerprint string) ([]*Vote, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :fp"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fp": &types.AttributeValueMemberS{Value: fingerprint},
		},
	})
	if err != nil {
		logging.Log.Errorf("VOTE: failed to query votes by fingerprint: %v", err)
		return nil, classifyServiceError(err)
	}

	var votes []*Vote
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &votes); err != nil {
		logging.Log.Errorf("VOTE: failed to unmarshal votes: %v", err)
		return nil, err
	}
	return votes, nil
}

// Cast commits the vote row and the poem counter increment atomically. The
// conditional put on (fingerprint, pair key) is the authoritative dedup check;
// losing that race surfaces as ErrDuplicateVote, which callers treat the same
// as a pre-detected duplicate.
func (s *DynamoVoteStorage) Cast(ctx context.Context, vote *Vote) error {
	item, err := attributevalue.MarshalMap(vote)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to marshal vote: %v", err)
		return err
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &s.TableName,
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
			{
				Update: &types.Update{
					TableName: &s.PoemsTableName,
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: vote.PoemID},
					},
					UpdateExpression:    aws.String("ADD VoteCount :one"),
					ConditionExpression: aws.String("attribute_exists(PK)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":one": &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for i, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					if i == 0 {
						logging.Log.Warnf("VOTE: duplicate vote for pair %s", vote.PairKey)
						return ErrDuplicateVote
					}
					logging.Log.Warnf("VOTE: poem %s missing during cast", vote.PoemID)
					return ErrPoemNotFound
				}
			}
		}
		logging.Log.Errorf("VOTE: failed to cast vote: %v", err)
		return classifyServiceError(err)
	}
	return nil
}

func (s *DynamoVoteStorage) DeleteAll(ctx context.Context) error {
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		scanOutput, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            &s.TableName,
			ExclusiveStartKey:    lastEvaluatedKey,
			ProjectionExpression: aws.String("PK, SK"),
		})
		if err != nil {
			logging.Log.Errorf("VOTE: scan for delete failed: %v", err)
			return classifyServiceError(err)
		}

		var writeRequests []types.WriteRequest
		for _, item := range scanOutput.Items {
			writeRequests = append(writeRequests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"PK": item["PK"],
						"SK": item["SK"],
					},
				},
			})
		}

		for i := 0; i < len(writeRequests); i += 25 {
			end := i + 25
			if end > len(writeRequests) {
				end = len(writeRequests)
			}
			_, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					s.TableName: writeRequests[i:end],
				},
			})
			if err != nil {
				logging.Log.Errorf("VOTE: batch delete failed: %v", err)
				return classifyServiceError(err)
			}
			logging.Log.Infof("VOTE: deleted batch of %d votes", end-i)
		}

		if scanOutput.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = scanOutput.LastEvaluatedKey
	}

	return nil
}
