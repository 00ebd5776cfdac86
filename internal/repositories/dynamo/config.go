package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"product-catalog-api/internal/repositories"
)

// GetItemAPI is the subset of the DynamoDB client used for config lookups
type GetItemAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// ConfigRepository retrieves per-user configuration documents from DynamoDB
type ConfigRepository struct {
	client    GetItemAPI
	tableName string
	logger    *logrus.Logger
}

// NewConfigRepository creates a new DynamoDB config repository
func NewConfigRepository(client GetItemAPI, tableName string, logger *logrus.Logger) repositories.ConfigRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConfigRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// GetUserConfig fetches the config document for a user. An absent document is
// not an error: an empty map is returned instead.
func (r *ConfigRepository) GetUserConfig(ctx context.Context, userID string) (map[string]interface{}, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: "USER#" + userID},
			"sk": &types.AttributeValueMemberS{Value: "CONFIG"},
		},
	})
	if err != nil {
		r.logger.WithError(err).WithField("user_id", userID).Error("Failed to fetch user config")
		return nil, repositories.NewRepositoryError("get_user_config", "config", userID, err)
	}

	if out.Item == nil {
		return map[string]interface{}{}, nil
	}

	config := map[string]interface{}{}
	if err := attributevalue.UnmarshalMap(out.Item, &config); err != nil {
		return nil, repositories.NewRepositoryError("get_user_config", "config", userID, err)
	}

	return config, nil
}
