package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo understands the two condition expressions the cart store uses.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	puts  []*dynamodb.PutItemInput
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := in.Key["user_id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.puts = append(f.puts, in)
	key := in.Item["user_id"].(*types.AttributeValueMemberS).Value
	stored, exists := f.items[key]

	conflict := &types.ConditionalCheckFailedException{Message: strPtr("The conditional request failed")}
	switch *in.ConditionExpression {
	case "attribute_not_exists(user_id)":
		if exists {
			return nil, conflict
		}
	case "version = :v":
		want := in.ExpressionAttributeValues[":v"].(*types.AttributeValueMemberN).Value
		if !exists || stored["version"].(*types.AttributeValueMemberN).Value != want {
			return nil, conflict
		}
	}

	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoCartRepository(t *testing.T) {
	testCartRepository(t, NewDynamoCartRepository(newFakeDynamo(), "Carts", 0), "")
}

func TestDynamoCartRepository_SetsExpiry(t *testing.T) {
	fake := newFakeDynamo()
	repo := NewDynamoCartRepository(fake, "Carts", time.Hour)

	_, err := repo.GetOrCreate(context.Background(), "frank")
	require.NoError(t, err)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "Carts", *fake.puts[0].TableName)
	assert.Contains(t, fake.puts[0].Item, "expires_at")
}

func TestDynamoCartRepository_NoExpiryWithoutTTL(t *testing.T) {
	fake := newFakeDynamo()
	repo := NewDynamoCartRepository(fake, "Carts", 0)

	_, err := repo.GetOrCreate(context.Background(), "grace")
	require.NoError(t, err)

	require.Len(t, fake.puts, 1)
	assert.NotContains(t, fake.puts[0].Item, "expires_at")
}
