// Package dynamodb provides a [journal.VersionStore] that persists the schema
// version in an AWS DynamoDB table.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/filejournal/internal/awsx"
	"github.com/dogmatiq/filejournal/journal"
)

// VersionStore is an implementation of [journal.VersionStore] that keeps the
// version in a DynamoDB table.
//
// The table must first be created using [CreateVersionTable].
type VersionStore struct {
	// Client is the DynamoDB client to use.
	Client *dynamodb.Client

	// Table is the name of the table that contains the version.
	Table string

	// Namespace is the namespace in which the version is stored. If it is
	// empty, [journal.VersionNamespace] is used.
	Namespace string

	// Key is the key under which the version is stored. If it is empty,
	// [journal.VersionKey] is used.
	Key string

	// DecorateGetItem is an optional function that is called before each
	// DynamoDB "GetItem" request.
	//
	// It may modify the API input in-place. It returns options that will be
	// applied to the request.
	DecorateGetItem func(*dynamodb.GetItemInput) []func(*dynamodb.Options)

	// DecoratePutItem is an optional function that is called before each
	// DynamoDB "PutItem" request.
	//
	// It may modify the API input in-place. It returns options that will be
	// applied to the request.
	DecoratePutItem func(*dynamodb.PutItemInput) []func(*dynamodb.Options)
}

var _ journal.VersionStore = (*VersionStore)(nil)

const (
	namespaceAttr = "Namespace"
	keyAttr       = "Key"
	versionAttr   = "Version"
)

// LoadVersion returns the persisted version.
func (s *VersionStore) LoadVersion(ctx context.Context) (int, error) {
	out, err := awsx.Do(
		ctx,
		s.Client.GetItem,
		s.DecorateGetItem,
		&dynamodb.GetItemInput{
			TableName:            aws.String(s.Table),
			Key:                  s.itemKey(),
			ConsistentRead:       aws.Bool(true),
			ProjectionExpression: aws.String(`#V`),
			ExpressionAttributeNames: map[string]string{
				"#V": versionAttr,
			},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("unable to load version: %w", err)
	}

	if out.Item == nil {
		return 0, nil
	}

	return unmarshalVersion(out.Item)
}

// SaveVersion persists the version.
func (s *VersionStore) SaveVersion(ctx context.Context, v int) error {
	item := s.itemKey()
	item[versionAttr] = &types.AttributeValueMemberN{
		Value: strconv.Itoa(v),
	}

	if _, err := awsx.Do(
		ctx,
		s.Client.PutItem,
		s.DecoratePutItem,
		&dynamodb.PutItemInput{
			TableName: aws.String(s.Table),
			Item:      item,
		},
	); err != nil {
		return fmt.Errorf("unable to save version: %w", err)
	}

	return nil
}

func (s *VersionStore) itemKey() map[string]types.AttributeValue {
	ns := s.Namespace
	if ns == "" {
		ns = journal.VersionNamespace
	}

	key := s.Key
	if key == "" {
		key = journal.VersionKey
	}

	return map[string]types.AttributeValue{
		namespaceAttr: &types.AttributeValueMemberS{Value: ns},
		keyAttr:       &types.AttributeValueMemberS{Value: key},
	}
}

// CreateVersionTable creates a DynamoDB table for use with [VersionStore].
//
// It does nothing if the table already exists.
func CreateVersionTable(
	ctx context.Context,
	client *dynamodb.Client,
	table string,
	decorators ...func(*dynamodb.CreateTableInput) []func(*dynamodb.Options),
) error {
	_, err := awsx.Do(
		ctx,
		client.CreateTable,
		func(in *dynamodb.CreateTableInput) []func(*dynamodb.Options) {
			var options []func(*dynamodb.Options)
			for _, dec := range decorators {
				options = append(options, dec(in)...)
			}

			return options
		},
		&dynamodb.CreateTableInput{
			TableName: aws.String(table),
			AttributeDefinitions: []types.AttributeDefinition{
				{
					AttributeName: aws.String(namespaceAttr),
					AttributeType: types.ScalarAttributeTypeS,
				},
				{
					AttributeName: aws.String(keyAttr),
					AttributeType: types.ScalarAttributeTypeS,
				},
			},
			KeySchema: []types.KeySchemaElement{
				{
					AttributeName: aws.String(namespaceAttr),
					KeyType:       types.KeyTypeHash,
				},
				{
					AttributeName: aws.String(keyAttr),
					KeyType:       types.KeyTypeRange,
				},
			},
			BillingMode: types.BillingModePayPerRequest,
		},
	)

	if errors.As(err, new(*types.ResourceInUseException)) {
		return nil
	}

	return err
}
