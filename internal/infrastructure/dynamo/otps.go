package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mubs-locator/internal/domain"
)

// OTPRepo stores one pending code per identity.
// PK: identity. Consume and RecordFailure are conditional on issue_id.
type OTPRepo struct {
	client    ItemAPI
	tableName string
}

func NewOTPRepo(client ItemAPI, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

func (r *OTPRepo) Put(ctx context.Context, rec *domain.OTPRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *OTPRepo) Get(ctx context.Context, identity string) (*domain.OTPRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldIdentity, identity),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	var rec domain.OTPRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *OTPRepo) Consume(ctx context.Context, rec *domain.OTPRecord) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldIdentity, rec.Identity),
		ConditionExpression:       aws.String("#i = :i"),
		ExpressionAttributeNames:  map[string]string{"#i": fieldIssueID},
		ExpressionAttributeValues: map[string]types.AttributeValue{":i": &types.AttributeValueMemberS{Value: rec.IssueID}},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("otp record changed: %w", domain.ErrNotFound)
	}
	return err
}

func (r *OTPRepo) RecordFailure(ctx context.Context, rec *domain.OTPRecord) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldIdentity, rec.Identity),
		UpdateExpression:    aws.String("ADD #a :one"),
		ConditionExpression: aws.String("#i = :i"),
		ExpressionAttributeNames: map[string]string{
			"#a": fieldAttempts,
			"#i": fieldIssueID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":i":   &types.AttributeValueMemberS{Value: rec.IssueID},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return 0, fmt.Errorf("otp record changed: %w", domain.ErrNotFound)
		}
		return 0, err
	}
	n, ok := out.Attributes[fieldAttempts].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("attempts missing from update output")
	}
	return strconv.Atoi(n.Value)
}

func (r *OTPRepo) Delete(ctx context.Context, identity string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldIdentity, identity),
	})
	return err
}
