package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/linxGnu/goseaweedfs"

	"go-cloud-drive/internal/config"
)

// Provider represents the type of object store being used
type Provider string

const (
	S3        Provider = "s3"
	SeaweedFS Provider = "seaweedfs"
	Local     Provider = "local"
	Memory    Provider = "memory"
)

// containerMarker is the zero-byte object that materializes an empty container
// on backends without real directories.
const containerMarker = ".keep"

// ObjectStore is the binary persistence contract. Containers are key prefixes
// tied to folders; objects are file payloads addressed by opaque keys.
type ObjectStore interface {
	CreateContainer(path string) error
	// DeleteContainer removes the container and everything under it, returning
	// the number of objects deleted.
	DeleteContainer(path string) (int, error)
	// PutObject stores data under path and returns the key it is addressable by.
	PutObject(path string, data []byte, contentType string) (string, error)
	GetObject(key string) (io.ReadCloser, error)
	CopyObject(srcKey, dstKey string) error
	DeleteObject(key string) error
	ObjectExists(key string) (bool, error)
	PresignedURL(key string, expiration time.Duration) (string, error)
	PublicURL(key string) string
}

// S3Store implements ObjectStore on AWS S3 or any S3-compatible endpoint.
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// CreateContainer provisions an empty container by writing a marker object.
func (s *S3Store) CreateContainer(containerPath string) error {
	key := path.Join(containerPath, containerMarker)
	_, err := s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Body:   bytes.NewReader(nil),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to create container in S3: %v", err)
	}
	return nil
}

// DeleteContainer removes every object under the container prefix.
func (s *S3Store) DeleteContainer(containerPath string) (int, error) {
	prefix := containerPath + "/"
	deleted := 0
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return deleted, fmt.Errorf("failed to list container objects in S3: %v", err)
		}
		for _, object := range page.Contents {
			_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    object.Key,
			})
			if err != nil {
				return deleted, fmt.Errorf("failed to delete container object from S3: %v", err)
			}
			deleted++
		}
	}
	return deleted, nil
}

// PutObject uploads data to S3
func (s *S3Store) PutObject(objectPath string, data []byte, contentType string) (string, error) {
	key := path.Clean(objectPath)
	_, err := s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Body:        bytes.NewReader(data),
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object to S3: %v", err)
	}
	return key, nil
}

// GetObject downloads an object from S3
func (s *S3Store) GetObject(key string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download object from S3: %v", err)
	}
	return result.Body, nil
}

// CopyObject copies an object within the bucket
func (s *S3Store) CopyObject(srcKey, dstKey string) error {
	_, err := s.client.CopyObject(context.Background(), &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(url.PathEscape(s.bucket + "/" + srcKey)),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return fmt.Errorf("failed to copy object in S3: %v", err)
	}
	return nil
}

// DeleteObject deletes an object from S3
func (s *S3Store) DeleteObject(key string) error {
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %v", err)
	}
	return nil
}

// ObjectExists reports whether the key is present in the bucket
func (s *S3Store) ObjectExists(key string) (bool, error) {
	_, err := s.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object in S3: %v", err)
	}
	return true, nil
}

// PresignedURL generates a presigned URL for S3
func (s *S3Store) PresignedURL(key string, expiration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiration
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %v", err)
	}
	return request.URL, nil
}

// PublicURL returns the public URL for an object in S3
func (s *S3Store) PublicURL(key string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// SeaweedStore implements ObjectStore on a SeaweedFS filer.
type SeaweedStore struct {
	client    *goseaweedfs.Filer
	publicURL string
}

// CreateContainer materializes the container directory on the filer.
func (s *SeaweedStore) CreateContainer(containerPath string) error {
	marker := path.Join(containerPath, containerMarker)
	if _, err := s.client.Upload(bytes.NewReader(nil), 0, marker, "default", ""); err != nil {
		return fmt.Errorf("failed to create container in SeaweedFS: %v", err)
	}
	return nil
}

// DeleteContainer removes the container directory recursively. The filer does
// not report how many entries it removed, so the count is always zero.
func (s *SeaweedStore) DeleteContainer(containerPath string) (int, error) {
	args := url.Values{"recursive": []string{"true"}}
	if err := s.client.Delete(containerPath, args); err != nil {
		return 0, fmt.Errorf("failed to delete container from SeaweedFS: %v", err)
	}
	return 0, nil
}

// PutObject uploads data to the filer
func (s *SeaweedStore) PutObject(objectPath string, data []byte, contentType string) (string, error) {
	key := path.Clean(objectPath)
	if _, err := s.client.Upload(bytes.NewReader(data), int64(len(data)), key, "default", ""); err != nil {
		return "", fmt.Errorf("failed to upload object to SeaweedFS: %v", err)
	}
	return key, nil
}

// GetObject downloads an object from the filer
func (s *SeaweedStore) GetObject(key string) (io.ReadCloser, error) {
	data, _, err := s.client.Get(key, url.Values{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download object from SeaweedFS: %v", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// CopyObject copies an object by reading it back and re-uploading
func (s *SeaweedStore) CopyObject(srcKey, dstKey string) error {
	data, _, err := s.client.Get(srcKey, url.Values{}, nil)
	if err != nil {
		return fmt.Errorf("failed to read source object from SeaweedFS: %v", err)
	}
	if _, err := s.client.Upload(bytes.NewReader(data), int64(len(data)), dstKey, "default", ""); err != nil {
		return fmt.Errorf("failed to copy object in SeaweedFS: %v", err)
	}
	return nil
}

// DeleteObject deletes an object from the filer
func (s *SeaweedStore) DeleteObject(key string) error {
	if err := s.client.Delete(key, url.Values{}); err != nil {
		return fmt.Errorf("failed to delete object from SeaweedFS: %v", err)
	}
	return nil
}

// ObjectExists reports whether the key is present on the filer
func (s *SeaweedStore) ObjectExists(key string) (bool, error) {
	if _, _, err := s.client.Get(key, url.Values{}, nil); err != nil {
		return false, nil
	}
	return true, nil
}

// PresignedURL generates an expiring URL for the filer
func (s *SeaweedStore) PresignedURL(key string, expiration time.Duration) (string, error) {
	expiresAt := time.Now().Add(expiration).Unix()
	return fmt.Sprintf("%s/%s?exp=%d", s.publicURL, key, expiresAt), nil
}

// PublicURL returns the public URL for an object on the filer
func (s *SeaweedStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

// New creates an object store for the given provider.
func New(provider Provider, cfg map[string]string) (ObjectStore, error) {
	switch provider {
	case S3:
		return NewS3Store(cfg)
	case SeaweedFS:
		return NewSeaweedStore(cfg)
	case Local:
		return NewLocalStore(cfg["base_dir"], cfg["public_url"])
	case Memory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", provider)
	}
}

// NewFromConfig selects and builds the configured object store. The choice is
// made here, once, at startup; nothing downstream branches on the provider.
func NewFromConfig(cfg *config.Config) (ObjectStore, error) {
	switch Provider(cfg.Storage.Provider) {
	case S3:
		return NewS3Store(map[string]string{
			"region":            cfg.Storage.S3.Region,
			"access_key_id":     cfg.Storage.S3.AccessKeyID,
			"secret_access_key": cfg.Storage.S3.SecretAccessKey,
			"bucket":            cfg.Storage.S3.BucketName,
			"endpoint":          cfg.Storage.S3.Endpoint,
			"force_path_style":  "true",
			"public_url":        cfg.Storage.S3.PublicURL,
		})
	case SeaweedFS:
		return NewSeaweedStore(map[string]string{
			"filer_url":  cfg.Storage.SeaweedFS.FilerURL,
			"public_url": cfg.Storage.SeaweedFS.PublicURL,
		})
	case Local:
		return NewLocalStore(cfg.Storage.Path, fmt.Sprintf("http://localhost:%s/files", cfg.Server.Port))
	case Memory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}

// NewS3Store creates a new S3 object store instance
func NewS3Store(cfg map[string]string) (ObjectStore, error) {
	awsCfg := aws.Config{
		Region: cfg["region"],
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg["access_key_id"],
			cfg["secret_access_key"],
			"",
		),
	}

	if endpoint := cfg["endpoint"]; endpoint != "" {
		customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               endpoint,
				SigningRegion:     cfg["region"],
				HostnameImmutable: true,
			}, nil
		})
		awsCfg.EndpointResolverWithOptions = customResolver
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg["force_path_style"] == "true"
	})

	return &S3Store{
		client:    client,
		bucket:    cfg["bucket"],
		publicURL: cfg["public_url"],
	}, nil
}

// NewSeaweedStore creates a new SeaweedFS object store instance
func NewSeaweedStore(cfg map[string]string) (ObjectStore, error) {
	client, err := goseaweedfs.NewFiler(cfg["filer_url"], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create SeaweedFS client: %v", err)
	}

	return &SeaweedStore{
		client:    client,
		publicURL: cfg["public_url"],
	}, nil
}
