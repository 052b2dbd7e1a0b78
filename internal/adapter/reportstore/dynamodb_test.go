package reportstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo is an in-memory table that pages Scan results.
type fakeDynamo struct {
	mu       sync.Mutex
	items    []map[string]types.AttributeValue
	pageSize int
	scans    int
	putErr   error
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	id := in.Item["id"].(*types.AttributeValueMemberS).Value
	for _, item := range f.items {
		if item["id"].(*types.AttributeValueMemberS).Value == id {
			return nil, &types.ConditionalCheckFailedException{Message: stringPtr("exists")}
		}
	}
	f.items = append(f.items, in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++

	start := 0
	if in.ExclusiveStartKey != nil {
		fmt.Sscanf(in.ExclusiveStartKey["offset"].(*types.AttributeValueMemberN).Value, "%d", &start)
	}
	end := min(start+f.pageSize, len(f.items))
	out := &dynamodb.ScanOutput{Items: f.items[start:end]}
	if end < len(f.items) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"offset": &types.AttributeValueMemberN{Value: fmt.Sprint(end)},
		}
	}
	return out, nil
}

func stringPtr(s string) *string { return &s }

func TestDynamoStore(t *testing.T) {
	fake := &fakeDynamo{pageSize: 2}
	exerciseStore(t, NewDynamoStore(fake, "NoiseReports"))
	assert.Greater(t, fake.scans, 1, "List follows LastEvaluatedKey")
}

func TestDynamoStore_OmitsEmptyAttributes(t *testing.T) {
	item := marshalReport(sampleReports()[1])

	assert.NotContains(t, item, "lat")
	assert.NotContains(t, item, "formatted_address")
	assert.NotContains(t, item, "geo_source")
	assert.Equal(t, "70", item["level"].(*types.AttributeValueMemberN).Value)
}

func TestDynamoStore_SaveError(t *testing.T) {
	fake := &fakeDynamo{pageSize: 10, putErr: errors.New("throttled")}

	err := NewDynamoStore(fake, "NoiseReports").Save(context.Background(), sampleReports()[0])

	require.Error(t, err)
	assert.Contains(t, err.Error(), "construction-01")
}

func TestUnmarshalReport_BadNumber(t *testing.T) {
	item := marshalReport(sampleReports()[0])
	item["level"] = &types.AttributeValueMemberN{Value: "loud"}

	_, err := unmarshalReport(item)

	assert.ErrorContains(t, err, "level")
}
