package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putIn    *s3.PutObjectInput
	deleteIn *s3.DeleteObjectInput
	err      error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.DeleteObjectOutput{}, nil
}

func restoreGlobals() {
	loadAWSConfig = awsconfig.LoadDefaultConfig
	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
}

func testOptions() Options {
	return Options{
		Bucket:          "photos",
		Region:          "auto",
		Endpoint:        "https://acct.r2.cloudflarestorage.com",
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
		PublicURL:       "https://cdn.example.com/",
	}
}

func TestNewS3Store(t *testing.T) {
	t.Cleanup(restoreGlobals)

	_, err := NewS3Store(context.Background(), Options{})
	require.Error(t, err)

	loadAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load")
	}
	_, err = NewS3Store(context.Background(), testOptions())
	require.ErrorContains(t, err, "load")

	loadAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "auto"}, nil
	}
	var applied s3.Options
	newS3Client = func(_ aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(&applied)
		}
		return &fakeS3{}
	}
	s, err := NewS3Store(context.Background(), testOptions())
	require.NoError(t, err)
	require.Equal(t, "https://acct.r2.cloudflarestorage.com", aws.ToString(applied.BaseEndpoint))
	require.True(t, applied.UsePathStyle)
	require.Equal(t, "https://cdn.example.com/photo_1.jpg", s.URL("photo_1.jpg"))
}

func TestS3StorePutDelete(t *testing.T) {
	fake := &fakeS3{}
	s := &S3Store{client: fake, bucket: "photos", publicBase: "https://cdn.example.com"}

	u, err := s.Put(context.Background(), "photo_1.jpg", strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/photo_1.jpg", u)
	require.Equal(t, "photos", aws.ToString(fake.putIn.Bucket))
	require.Equal(t, "image/jpeg", aws.ToString(fake.putIn.ContentType))
	body, _ := io.ReadAll(fake.putIn.Body)
	require.Equal(t, "img", string(body))

	require.NoError(t, s.Delete(context.Background(), "photo_1.jpg"))
	require.Equal(t, "photo_1.jpg", aws.ToString(fake.deleteIn.Key))

	fake.err = errors.New("denied")
	_, err = s.Put(context.Background(), "k", strings.NewReader(""), "image/png")
	require.ErrorContains(t, err, "denied")
	require.ErrorContains(t, s.Delete(context.Background(), "k"), "denied")
}

func TestFakeFileStore(t *testing.T) {
	f := &FakeFileStore{}
	require.Panics(t, func() { f.Put(context.Background(), "k", nil, "") })
	require.Panics(t, func() { f.Delete(context.Background(), "k") })
}
