package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront-service/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoCartAPI is the subset of the DynamoDB client the cart store uses.
type DynamoCartAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type ddbCartItem struct {
	ID        string `dynamodbav:"id"`
	ProductID string `dynamodbav:"product_id"`
	Quantity  int    `dynamodbav:"quantity"`
}

type ddbCart struct {
	UserID    string        `dynamodbav:"user_id"`
	Items     []ddbCartItem `dynamodbav:"items"`
	Version   int64         `dynamodbav:"version"`
	CreatedAt string        `dynamodbav:"created_at"`
	UpdatedAt string        `dynamodbav:"updated_at"`
	ExpiresAt int64         `dynamodbav:"expires_at,omitempty"`
}

// DynamoCartRepository stores carts in a table keyed by user_id. Saves are
// conditional puts guarded by the version attribute.
type DynamoCartRepository struct {
	client DynamoCartAPI
	table  string
	ttl    time.Duration
}

func NewDynamoCartRepository(client DynamoCartAPI, table string, ttl time.Duration) *DynamoCartRepository {
	return &DynamoCartRepository{client: client, table: table, ttl: ttl}
}

func (r *DynamoCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := r.Find(ctx, userID)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return cart, err
	}

	cart = models.NewCart(userID)
	if err := r.Save(ctx, cart); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return r.Find(ctx, userID)
		}
		return nil, err
	}
	return cart, nil
}

func (r *DynamoCartRepository) Find(ctx context.Context, userID string) (*models.Cart, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            key,
		ConsistentRead: boolPtr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var dc ddbCart
	if err := attributevalue.UnmarshalMap(out.Item, &dc); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return dc.toModel(), nil
}

func (r *DynamoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	createdAt := cart.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	dc := ddbCart{
		UserID:    cart.UserID,
		Items:     make([]ddbCartItem, 0, len(cart.Items)),
		Version:   cart.Version + 1,
		CreatedAt: createdAt.Format(time.RFC3339Nano),
		UpdatedAt: now.Format(time.RFC3339Nano),
	}
	for _, it := range cart.Items {
		dc.Items = append(dc.Items, ddbCartItem{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if r.ttl > 0 {
		dc.ExpiresAt = now.Add(r.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(dc)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	input := &dynamodb.PutItemInput{TableName: &r.table, Item: item}
	if cart.Version == 0 {
		input.ConditionExpression = strPtr("attribute_not_exists(user_id)")
	} else {
		input.ConditionExpression = strPtr("version = :v")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: strconv.FormatInt(cart.Version, 10)},
		}
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrVersionConflict
		}
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}

	cart.Version = dc.Version
	cart.CreatedAt = createdAt
	cart.UpdatedAt = now
	return nil
}

func (d *ddbCart) toModel() *models.Cart {
	cart := &models.Cart{
		UserID:  d.UserID,
		Items:   make([]models.CartItem, 0, len(d.Items)),
		Version: d.Version,
	}
	for _, it := range d.Items {
		cart.Items = append(cart.Items, models.CartItem{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if t, err := time.Parse(time.RFC3339Nano, d.CreatedAt); err == nil {
		cart.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, d.UpdatedAt); err == nil {
		cart.UpdatedAt = t
	}
	return cart
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
