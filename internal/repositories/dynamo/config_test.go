package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus/hooks/test"
)

// stubGetClient returns a canned GetItem result
type stubGetClient struct {
	item map[string]types.AttributeValue
	err  error
	keys []map[string]types.AttributeValue
}

func (s *stubGetClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	s.keys = append(s.keys, params.Key)
	if s.err != nil {
		return nil, s.err
	}
	return &dynamodb.GetItemOutput{Item: s.item}, nil
}

func TestConfigRepository_GetUserConfig(t *testing.T) {
	client := &stubGetClient{
		item: map[string]types.AttributeValue{
			"pk":    &types.AttributeValueMemberS{Value: "USER#user-1"},
			"sk":    &types.AttributeValueMemberS{Value: "CONFIG"},
			"theme": &types.AttributeValueMemberS{Value: "dark"},
		},
	}
	logger, _ := test.NewNullLogger()

	repo := NewConfigRepository(client, "app-configs", logger)
	config, err := repo.GetUserConfig(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetUserConfig failed: %v", err)
	}

	if config["theme"] != "dark" {
		t.Errorf("Expected theme dark, got %v", config["theme"])
	}

	key := client.keys[0]
	if pk := key["pk"].(*types.AttributeValueMemberS).Value; pk != "USER#user-1" {
		t.Errorf("Expected pk USER#user-1, got %s", pk)
	}
	if sk := key["sk"].(*types.AttributeValueMemberS).Value; sk != "CONFIG" {
		t.Errorf("Expected sk CONFIG, got %s", sk)
	}
}

func TestConfigRepository_AbsentDocument(t *testing.T) {
	client := &stubGetClient{}
	logger, _ := test.NewNullLogger()

	repo := NewConfigRepository(client, "app-configs", logger)
	config, err := repo.GetUserConfig(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetUserConfig failed: %v", err)
	}

	if config == nil || len(config) != 0 {
		t.Errorf("Expected empty config for absent document, got %v", config)
	}
}

func TestConfigRepository_BackendError(t *testing.T) {
	client := &stubGetClient{err: errors.New("table offline")}
	logger, _ := test.NewNullLogger()

	repo := NewConfigRepository(client, "app-configs", logger)
	if _, err := repo.GetUserConfig(context.Background(), "user-1"); err == nil {
		t.Error("Expected backend error to propagate")
	}
}
