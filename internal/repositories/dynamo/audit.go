package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"

	"product-catalog-api/internal/models"
	"product-catalog-api/internal/repositories"
)

// PutItemAPI is the subset of the DynamoDB client used by the audit sink
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// auditItem is the storage shape of an audit entry
type auditItem struct {
	PK          string                 `dynamodbav:"PK"`
	SK          string                 `dynamodbav:"SK"`
	Action      string                 `dynamodbav:"action"`
	PerformedBy string                 `dynamodbav:"performed_by"`
	Details     map[string]interface{} `dynamodbav:"details,omitempty"`
	TTL         int64                  `dynamodbav:"ttl"`
}

// AuditRepository appends immutable audit records to DynamoDB. Writes are
// fail-open: a failed write is logged as CRITICAL but never surfaced to the
// caller, so an audit-store outage cannot fail the primary business
// operation. This is a documented compliance trade-off.
type AuditRepository struct {
	client    PutItemAPI
	tableName string
	logger    *logrus.Logger
}

// NewAuditRepository creates a new DynamoDB audit repository
func NewAuditRepository(client PutItemAPI, tableName string, logger *logrus.Logger) repositories.AuditRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &AuditRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Log writes one audit entry. PK groups all entries for an entity, SK orders
// them by timestamp. No retry, no buffering: the write happens once or not at
// all.
func (r *AuditRepository) Log(ctx context.Context, entry *models.AuditEntry) {
	if err := r.put(ctx, entry); err != nil {
		r.logger.WithFields(logrus.Fields{
			"severity":  "CRITICAL",
			"entity_id": entry.EntityID,
			"action":    entry.Action,
			"actor":     entry.PerformedBy,
			"timestamp": entry.Timestamp,
		}).WithError(err).Error("CRITICAL: Failed to write audit log")
	}
}

func (r *AuditRepository) put(ctx context.Context, entry *models.AuditEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid audit entry: %w", err)
	}

	item, err := attributevalue.MarshalMap(&auditItem{
		PK:          "PRODUCT#" + entry.EntityID,
		SK:          entry.Timestamp,
		Action:      string(entry.Action),
		PerformedBy: entry.PerformedBy,
		Details:     entry.Details,
		TTL:         entry.TTL,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"entity_id": entry.EntityID,
		"action":    entry.Action,
	}).Debug("Writing audit log")

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
