package aws_test

import (
	"context"
	"errors"
	"testing"
	"time"

	awspkg "catalog-admin/pkg/aws"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	return &s3.PutObjectOutput{}, f.err
}

func TestExportStorePut(t *testing.T) {
	client := &fakeS3{}
	var signedKey string
	store := awspkg.NewExportStoreWith(client, func(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
		signedKey = key
		return "https://signed/" + key, nil
	}, "exports-bucket", "catalog", 15*time.Minute)

	out, err := store.Put(context.Background(), "products.xlsx", "application/octet-stream", []byte("xlsx"))
	require.NoError(t, err)

	assert.Equal(t, "catalog/products.xlsx", *client.input.Key)
	assert.Equal(t, "exports-bucket", *client.input.Bucket)
	assert.Equal(t, "catalog/products.xlsx", signedKey)
	assert.Equal(t, "https://signed/catalog/products.xlsx", out.URL)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), out.ExpiresAt, time.Minute)
}

func TestExportStoreUploadFailure(t *testing.T) {
	store := awspkg.NewExportStoreWith(&fakeS3{err: errors.New("denied")}, nil, "b", "p", time.Minute)

	_, err := store.Put(context.Background(), "x.csv", "text/csv", nil)
	assert.ErrorContains(t, err, "denied")
}

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMetricsClient(t *testing.T) {
	cw := &fakeCloudWatch{}
	enabled := awspkg.NewMetricsClientWith(cw, "", true)
	require.NoError(t, enabled.RecordCount(context.Background(), awspkg.MetricScreenSaves, map[string]string{"Screen": "product-list"}))

	require.Len(t, cw.inputs, 1)
	assert.Equal(t, "CatalogAdmin", *cw.inputs[0].Namespace)
	assert.Equal(t, awspkg.MetricScreenSaves, *cw.inputs[0].MetricData[0].MetricName)

	disabled := awspkg.NewMetricsClientWith(cw, "ns", false)
	require.NoError(t, disabled.RecordCount(context.Background(), awspkg.MetricScreenSaves, nil))
	assert.Len(t, cw.inputs, 1)
	assert.False(t, disabled.IsEnabled())

	var nilClient *awspkg.MetricsClient
	assert.False(t, nilClient.IsEnabled())
}

type fakeSecretsManager struct {
	calls int
	value *string
}

func (f *fakeSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestSecretsClientCaches(t *testing.T) {
	v := "token"
	sm := &fakeSecretsManager{value: &v}
	client := awspkg.NewSecretsClientWith(sm)

	for i := 0; i < 2; i++ {
		got, err := client.GetSecret(context.Background(), "catalog-admin/GRAPHQL_TOKEN")
		require.NoError(t, err)
		assert.Equal(t, "token", got)
	}
	assert.Equal(t, 1, sm.calls)

	_, err := awspkg.NewSecretsClientWith(&fakeSecretsManager{}).GetSecret(context.Background(), "missing")
	assert.ErrorContains(t, err, "no string value")
}
