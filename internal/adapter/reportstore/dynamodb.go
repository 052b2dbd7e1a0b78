package reportstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoStore.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore persists reports in a DynamoDB table keyed by "id".
type DynamoStore struct {
	client DynamoDBAPI
	table  string
}

// OpenDynamoDB builds a client from the default AWS credential chain.
func OpenDynamoDB(ctx context.Context, table string) (*DynamoStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load aws config: %w", err)
	}
	return NewDynamoStore(dynamodb.NewFromConfig(cfg), table), nil
}

// NewDynamoStore wraps an existing client.
func NewDynamoStore(client DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// Save writes r unless a report with the same ID exists.
func (s *DynamoStore) Save(ctx context.Context, r domain.NoiseReport) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                marshalReport(r),
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	var conflict *types.ConditionalCheckFailedException
	if errors.As(err, &conflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("dynamodb: put report %s: %w", r.ID, err)
	}
	return nil
}

// List scans the table and returns up to limit reports, newest first.
// The table holds citizen reports only, so a full scan stays small.
func (s *DynamoStore) List(ctx context.Context, limit int) ([]domain.NoiseReport, error) {
	var (
		out      []domain.NoiseReport
		startKey map[string]types.AttributeValue
	)
	for {
		page, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan reports: %w", err)
		}
		for _, item := range page.Items {
			r, err := unmarshalReport(item)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		startKey = page.LastEvaluatedKey
	}
	return newestFirst(out, limit), nil
}

func (s *DynamoStore) Close() error { return nil }

func marshalReport(r domain.NoiseReport) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"id":           &types.AttributeValueMemberS{Value: r.ID},
		"type":         &types.AttributeValueMemberS{Value: r.Type},
		"level":        &types.AttributeValueMemberN{Value: formatFloat(r.Level)},
		"description":  &types.AttributeValueMemberS{Value: r.Description},
		"location":     &types.AttributeValueMemberS{Value: r.Location},
		"submitted_at": &types.AttributeValueMemberS{Value: r.SubmittedAt.UTC().Format(time.RFC3339Nano)},
	}
	if r.HasCoordinates() {
		item["lat"] = &types.AttributeValueMemberN{Value: formatFloat(r.Lat)}
		item["lon"] = &types.AttributeValueMemberN{Value: formatFloat(r.Lon)}
	}
	if r.FormattedAddress != "" {
		item["formatted_address"] = &types.AttributeValueMemberS{Value: r.FormattedAddress}
	}
	if r.GeoSource != "" {
		item["geo_source"] = &types.AttributeValueMemberS{Value: r.GeoSource}
	}
	return item
}

func unmarshalReport(item map[string]types.AttributeValue) (domain.NoiseReport, error) {
	var (
		r   domain.NoiseReport
		err error
	)
	r.ID = stringAttr(item, "id")
	r.Type = stringAttr(item, "type")
	r.Description = stringAttr(item, "description")
	r.Location = stringAttr(item, "location")
	r.FormattedAddress = stringAttr(item, "formatted_address")
	r.GeoSource = stringAttr(item, "geo_source")

	if r.Level, err = numberAttr(item, "level"); err != nil {
		return r, fmt.Errorf("dynamodb: report %s: %w", r.ID, err)
	}
	if r.Lat, err = numberAttr(item, "lat"); err != nil {
		return r, fmt.Errorf("dynamodb: report %s: %w", r.ID, err)
	}
	if r.Lon, err = numberAttr(item, "lon"); err != nil {
		return r, fmt.Errorf("dynamodb: report %s: %w", r.ID, err)
	}
	if r.SubmittedAt, err = time.Parse(time.RFC3339Nano, stringAttr(item, "submitted_at")); err != nil {
		return r, fmt.Errorf("dynamodb: report %s: submitted_at: %w", r.ID, err)
	}
	return r, nil
}

func stringAttr(item map[string]types.AttributeValue, key string) string {
	if v, ok := item[key].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// numberAttr returns 0 for a missing attribute.
func numberAttr(item map[string]types.AttributeValue, key string) (float64, error) {
	v, ok := item[key].(*types.AttributeValueMemberN)
	if !ok {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
