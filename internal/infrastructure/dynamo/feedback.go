package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/mubs-locator/internal/domain"
)

type FeedbackRepo struct {
	client    ItemAPI
	tableName string
}

func NewFeedbackRepo(client ItemAPI, tableName string) *FeedbackRepo {
	return &FeedbackRepo{client: client, tableName: tableName}
}

func (r *FeedbackRepo) Put(ctx context.Context, f *domain.Feedback) error {
	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(feedback_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("feedback %s already exists: %w", f.FeedbackID, domain.ErrConflict)
	}
	return err
}
