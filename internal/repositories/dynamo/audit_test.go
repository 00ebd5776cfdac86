package dynamo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"product-catalog-api/internal/models"
)

// stubPutClient captures PutItem calls and optionally fails them
type stubPutClient struct {
	calls []dynamodb.PutItemInput
	err   error
}

func (s *stubPutClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.calls = append(s.calls, *params)
	if s.err != nil {
		return nil, s.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func stringAttr(t *testing.T, item map[string]types.AttributeValue, key string) string {
	t.Helper()
	attr, ok := item[key].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("Expected string attribute %q, got %T", key, item[key])
	}
	return attr.Value
}

func TestAuditRepository_Log(t *testing.T) {
	client := &stubPutClient{}
	logger, _ := test.NewNullLogger()

	repo := NewAuditRepository(client, "product-audit-trail", logger)
	entry := models.NewAuditEntry("prod-1", models.ActionCreate, "admin", map[string]interface{}{
		"price": 9.99,
	})

	repo.Log(context.Background(), entry)

	if len(client.calls) != 1 {
		t.Fatalf("Expected 1 PutItem call, got %d", len(client.calls))
	}

	call := client.calls[0]
	if *call.TableName != "product-audit-trail" {
		t.Errorf("Expected table product-audit-trail, got %s", *call.TableName)
	}

	if pk := stringAttr(t, call.Item, "PK"); pk != "PRODUCT#prod-1" {
		t.Errorf("Expected PK PRODUCT#prod-1, got %s", pk)
	}
	if sk := stringAttr(t, call.Item, "SK"); sk != entry.Timestamp {
		t.Errorf("Expected SK %s, got %s", entry.Timestamp, sk)
	}
	if action := stringAttr(t, call.Item, "action"); action != "CREATE" {
		t.Errorf("Expected action CREATE, got %s", action)
	}

	if _, ok := call.Item["ttl"].(*types.AttributeValueMemberN); !ok {
		t.Error("Expected numeric ttl attribute")
	}
}

func TestAuditRepository_LogFailureNeverPropagates(t *testing.T) {
	client := &stubPutClient{err: errors.New("table offline")}
	logger, hook := test.NewNullLogger()

	repo := NewAuditRepository(client, "product-audit-trail", logger)
	entry := models.NewAuditEntry("prod-1", models.ActionUpdate, "admin", nil)

	// Must return normally despite the backend failure
	repo.Log(context.Background(), entry)

	var critical int
	for _, logEntry := range hook.AllEntries() {
		if logEntry.Level == logrus.ErrorLevel && strings.Contains(logEntry.Message, "CRITICAL") {
			critical++
		}
	}

	if critical != 1 {
		t.Errorf("Expected exactly one CRITICAL log event, got %d", critical)
	}
}

func TestAuditRepository_InvalidEntryLogged(t *testing.T) {
	client := &stubPutClient{}
	logger, hook := test.NewNullLogger()

	repo := NewAuditRepository(client, "product-audit-trail", logger)

	repo.Log(context.Background(), &models.AuditEntry{})

	if len(client.calls) != 0 {
		t.Errorf("Expected no PutItem call for invalid entry, got %d", len(client.calls))
	}
	if len(hook.AllEntries()) == 0 {
		t.Error("Expected invalid entry to be logged")
	}
}
