package dynamo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mubs-locator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockItemAPI struct{ mock.Mock }

func (m *mockItemAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}
func (m *mockItemAPI) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}
func (m *mockItemAPI) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.DeleteItemOutput)
	return out, args.Error(1)
}
func (m *mockItemAPI) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func conditionFailed() error {
	return fmt.Errorf("operation error DynamoDB: %w", &types.ConditionalCheckFailedException{})
}

var created = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func sampleRecord() *domain.OTPRecord {
	return &domain.OTPRecord{
		Identity:  "a@b.com",
		Code:      "1234",
		IssueID:   "01JTEST",
		CreatedAt: created,
		ExpiresAt: created.Add(30 * time.Minute),
	}
}

// --- tests ---

func TestOTPRepo_Put_StoresExpiryAsUnixSeconds(t *testing.T) {
	api := &mockItemAPI{}
	var captured *dynamodb.PutItemInput
	api.On("PutItem", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*dynamodb.PutItemInput)
	}).Return(&dynamodb.PutItemOutput{}, nil)

	repo := NewOTPRepo(api, "otp")
	require.NoError(t, repo.Put(context.Background(), sampleRecord()))

	require.NotNil(t, captured)
	assert.Equal(t, "otp", *captured.TableName)
	assert.Nil(t, captured.ConditionExpression, "issuance overwrites unconditionally")
	exp, ok := captured.Item["expires_at"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprint(created.Add(30*time.Minute).Unix()), exp.Value)
	id, ok := captured.Item["identity"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", id.Value)
}

func TestOTPRepo_Get_NotFound(t *testing.T) {
	api := &mockItemAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := NewOTPRepo(api, "otp").Get(context.Background(), "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOTPRepo_Get_RoundTrip(t *testing.T) {
	api := &mockItemAPI{}
	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return in.ConsistentRead != nil && *in.ConsistentRead
	})).Return(&dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"identity":   &types.AttributeValueMemberS{Value: "a@b.com"},
		"code":       &types.AttributeValueMemberS{Value: "1234"},
		"issue_id":   &types.AttributeValueMemberS{Value: "01JTEST"},
		"attempts":   &types.AttributeValueMemberN{Value: "2"},
		"created_at": &types.AttributeValueMemberN{Value: fmt.Sprint(created.Unix())},
		"expires_at": &types.AttributeValueMemberN{Value: fmt.Sprint(created.Add(30 * time.Minute).Unix())},
	}}, nil)

	rec, err := NewOTPRepo(api, "otp").Get(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "1234", rec.Code)
	assert.Equal(t, 2, rec.Attempts)
	assert.True(t, rec.CreatedAt.Equal(created))
	assert.True(t, rec.ExpiresAt.Equal(created.Add(30*time.Minute)))
}

func TestOTPRepo_Consume_ConditionalOnIssueID(t *testing.T) {
	api := &mockItemAPI{}
	api.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		v, ok := in.ExpressionAttributeValues[":i"].(*types.AttributeValueMemberS)
		return ok && v.Value == "01JTEST" && *in.ConditionExpression == "#i = :i"
	})).Return(&dynamodb.DeleteItemOutput{}, nil)

	require.NoError(t, NewOTPRepo(api, "otp").Consume(context.Background(), sampleRecord()))
	api.AssertExpectations(t)
}

func TestOTPRepo_Consume_ConditionFailed_IsNotFound(t *testing.T) {
	api := &mockItemAPI{}
	api.On("DeleteItem", mock.Anything, mock.Anything).Return(nil, conditionFailed())

	err := NewOTPRepo(api, "otp").Consume(context.Background(), sampleRecord())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOTPRepo_RecordFailure(t *testing.T) {
	api := &mockItemAPI{}
	api.On("UpdateItem", mock.Anything, mock.Anything).Return(&dynamodb.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{"attempts": &types.AttributeValueMemberN{Value: "3"}},
	}, nil)

	n, err := NewOTPRepo(api, "otp").RecordFailure(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestOTPRepo_RecordFailure_Reissued(t *testing.T) {
	api := &mockItemAPI{}
	api.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, conditionFailed())

	_, err := NewOTPRepo(api, "otp").RecordFailure(context.Background(), sampleRecord())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	api := &mockItemAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := NewUserRepo(api, "users").GetByEmail(context.Background(), "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserRepo_SetPushToken_Upserts(t *testing.T) {
	api := &mockItemAPI{}
	var captured *dynamodb.UpdateItemInput
	api.On("UpdateItem", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*dynamodb.UpdateItemInput)
	}).Return(&dynamodb.UpdateItemOutput{}, nil)

	require.NoError(t, NewUserRepo(api, "users").SetPushToken(context.Background(), "a@b.com", "tok"))
	require.NotNil(t, captured)
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1", *captured.UpdateExpression)
	assert.Equal(t, "fcm_token", captured.ExpressionAttributeNames["#f0"])
	assert.Equal(t, "updated_at", captured.ExpressionAttributeNames["#f1"])
}

func TestFeedbackRepo_Put_Duplicate(t *testing.T) {
	api := &mockItemAPI{}
	api.On("PutItem", mock.Anything, mock.Anything).Return(nil, conditionFailed())

	err := NewFeedbackRepo(api, "feedback").Put(context.Background(), &domain.Feedback{FeedbackID: "f1"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
