/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	storeerrors "github.com/suparena/searchstore/errors"
	"github.com/suparena/searchstore/storagemodels"
)

// KeyAttribute is the hash key of every table the client creates.
const KeyAttribute = "ID"

// API is the subset of the DynamoDB client used by Client.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, params *sdk.BatchWriteItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
	DeleteTable(ctx context.Context, params *sdk.DeleteTableInput, optFns ...func(*sdk.Options)) (*sdk.DeleteTableOutput, error)
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
}

// Config holds the AWS settings of a DynamoDB client.
type Config struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. DynamoDB Local.
	Endpoint string
}

// Client implements datastore.Client on DynamoDB. Every index is a table
// keyed by ID; the document source is stored as a JSON string attribute.
type Client struct {
	api    API
	opts   ScanOptions
	wait   time.Duration
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithScanOptions sets paging and retry behavior of table scans.
func WithScanOptions(opts ScanOptions) Option {
	return func(c *Client) {
		c.opts = opts
	}
}

// WithTableWait makes CreateIndex wait up to d for the new table to become active.
func WithTableWait(d time.Duration) Option {
	return func(c *Client) {
		c.wait = d
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// item is the stored form of a document.
type item struct {
	ID        string `dynamodbav:"ID"`
	Source    string `dynamodbav:"Source"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when an access key is set, the default credential chain otherwise.
func NewDynamoDBClient(ctx context.Context, cfg Config) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// New creates a Client from AWS settings.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	api, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	c := NewFromAPI(api, opts...)
	c.logger.Info("DynamoDB client initialized", "region", cfg.Region, "endpoint", cfg.Endpoint)
	return c, nil
}

// NewFromAPI wraps an existing DynamoDB API.
func NewFromAPI(api API, opts ...Option) *Client {
	c := &Client{
		api:    api,
		opts:   DefaultScanOptions(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a document by ID.
func (c *Client) Get(ctx context.Context, index, id string) (storagemodels.Document, error) {
	out, err := c.api.GetItem(ctx, &sdk.GetItemInput{
		TableName:      aws.String(index),
		Key:            keyOf(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return storagemodels.Document{}, tableError(err, index, "GetItem")
	}
	if out.Item == nil {
		return storagemodels.Document{}, storeerrors.NewNotFoundError("document", id)
	}
	return decodeItem(out.Item)
}

// Index stores a document, assigning a UUID when it has no ID.
func (c *Client) Index(ctx context.Context, index string, doc storagemodels.Document) (string, error) {
	av, id, err := encodeItem(doc)
	if err != nil {
		return "", err
	}
	_, err = c.api.PutItem(ctx, &sdk.PutItemInput{
		TableName: aws.String(index),
		Item:      av,
	})
	if err != nil {
		return "", tableError(err, index, "PutItem")
	}
	return id, nil
}

// Delete removes a document by ID. Deleting a missing document is a not found error.
func (c *Client) Delete(ctx context.Context, index, id string) error {
	_, err := c.api.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:                aws.String(index),
		Key:                      keyOf(id),
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": KeyAttribute},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return storeerrors.NewNotFoundError("document", id)
		}
		return tableError(err, index, "DeleteItem")
	}
	return nil
}

// CreateIndex creates the table backing index. DynamoDB tables are schemaless,
// so a mapping is accepted and ignored.
func (c *Client) CreateIndex(ctx context.Context, index string, mapping json.RawMessage) error {
	if len(mapping) > 0 {
		c.logger.Debug("ignoring index mapping", "index", index)
	}
	_, err := c.api.CreateTable(ctx, &sdk.CreateTableInput{
		TableName: aws.String(index),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(KeyAttribute), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(KeyAttribute), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return storeerrors.NewAlreadyExistsError("index", index)
		}
		return fmt.Errorf("CreateTable failed: %w", err)
	}

	if c.wait > 0 {
		waiter := sdk.NewTableExistsWaiter(c.api)
		if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(index)}, c.wait); err != nil {
			return fmt.Errorf("table %s did not become active: %w", index, err)
		}
	}
	return nil
}

// DeleteIndex drops the table backing index.
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	_, err := c.api.DeleteTable(ctx, &sdk.DeleteTableInput{TableName: aws.String(index)})
	if err != nil {
		return tableError(err, index, "DeleteTable")
	}
	return nil
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		KeyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

func encodeItem(doc storagemodels.Document) (map[string]types.AttributeValue, string, error) {
	if !json.Valid(doc.Source) {
		return nil, "", storeerrors.NewValidationError("source", fmt.Sprintf("document %q is not valid JSON", doc.ID))
	}
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	av, err := attributevalue.MarshalMap(item{
		ID:        id,
		Source:    string(doc.Source),
		UpdatedAt: strfmt.DateTime(time.Now().UTC()).String(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal document: %w", err)
	}
	return av, id, nil
}

func decodeItem(av map[string]types.AttributeValue) (storagemodels.Document, error) {
	var it item
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return storagemodels.Document{}, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return storagemodels.Document{ID: it.ID, Source: json.RawMessage(it.Source)}, nil
}

// tableError maps a missing table to a not found error on the index.
func tableError(err error, index, op string) error {
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return storeerrors.NewNotFoundError("index", index)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
