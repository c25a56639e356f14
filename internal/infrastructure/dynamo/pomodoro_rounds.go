package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-pomodoro-api/internal/domain"
)

// PomodoroRoundRepo provides typed DynamoDB operations for the
// pomodoro_rounds table.
type PomodoroRoundRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPomodoroRoundRepo(client *dynamodb.Client, tableName string) *PomodoroRoundRepo {
	return &PomodoroRoundRepo{client: client, tableName: tableName}
}

func (r *PomodoroRoundRepo) Put(ctx context.Context, round *domain.PomodoroRound) error {
	item, err := attributevalue.MarshalMap(round)
	if err != nil {
		return fmt.Errorf("marshal pomodoro round: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PomodoroRoundRepo) Get(ctx context.Context, roundID string) (*domain.PomodoroRound, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("round_id", roundID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("pomodoro round not found: %w", domain.ErrNotFound)
	}
	var round domain.PomodoroRound
	if err := attributevalue.UnmarshalMap(out.Item, &round); err != nil {
		return nil, err
	}
	return &round, nil
}

// ListBySession queries the session_id-number GSI and returns the session's
// rounds ordered by their position.
func (r *PomodoroRoundRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.PomodoroRound, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("session_id-number-index"),
		KeyConditionExpression: aws.String("session_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, err
	}
	var rounds []domain.PomodoroRound
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &rounds); err != nil {
		return nil, err
	}
	return rounds, nil
}

func (r *PomodoroRoundRepo) Update(ctx context.Context, roundID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("round_id", roundID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// DeleteBySession removes every round belonging to the session. Individual
// delete failures are logged and the first one is returned.
func (r *PomodoroRoundRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	rounds, err := r.ListBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	var firstErr error
	for _, round := range rounds {
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       strKey("round_id", round.RoundID),
		})
		if err != nil {
			slog.Warn("failed to delete round during session delete", "round_id", round.RoundID, "session_id", sessionID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
