package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by the workbook.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config locates the bucket holding worksheet objects.
type S3Config struct {
	Bucket string
	// Prefix is prepended to "<worksheet>.csv".
	Prefix   string
	Region   string
	Endpoint string
	// Static credentials; when empty the default AWS credential chain applies.
	AccessKeyID     string
	SecretAccessKey string
}

// S3 stores each worksheet as a CSV object. Appends are read-modify-write
// and serialised per workbook.
type S3 struct {
	client S3API
	bucket string
	prefix string
	mu     sync.Mutex
}

// NewS3 wraps an existing client.
func NewS3(client S3API, cfg S3Config) (*S3, error) {
	if client == nil {
		return nil, errors.New("sheets: s3 client is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("sheets: s3 bucket is required")
	}
	return &S3{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// OpenS3 builds an S3 client from the default AWS configuration and cfg.
func OpenS3(ctx context.Context, cfg S3Config) (*S3, error) {
	var loaders []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loaders = append(loaders, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("sheets: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3(client, cfg)
}

// Worksheet implements Workbook.
func (b *S3) Worksheet(ctx context.Context, name string, header []string) (Store, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	sheet := &s3Sheet{book: b, key: b.prefix + name + ".csv"}

	b.mu.Lock()
	defer b.mu.Unlock()
	grid, err := sheet.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 && len(header) > 0 {
		if err := sheet.store(ctx, [][]string{header}); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}

// Close implements Workbook.
func (b *S3) Close() error { return nil }

type s3Sheet struct {
	book *S3
	key  string
}

func (s *s3Sheet) Header(ctx context.Context) ([]string, error) {
	grid, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return headerOf(grid), nil
}

func (s *s3Sheet) AppendRow(ctx context.Context, row []any) error {
	s.book.mu.Lock()
	defer s.book.mu.Unlock()

	grid, err := s.load(ctx)
	if err != nil {
		return err
	}
	grid = append(grid, cellsOf(row))
	return s.store(ctx, grid)
}

func (s *s3Sheet) ReadAllRecords(ctx context.Context) ([]map[string]any, error) {
	grid, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return recordsFromGrid(grid), nil
}

func (s *s3Sheet) load(ctx context.Context) ([][]string, error) {
	out, err := s.book.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.book.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("sheets: get s3://%s/%s: %w", s.book.bucket, s.key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("sheets: read s3://%s/%s: %w", s.book.bucket, s.key, err)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sheets: parse %s: %w", s.key, err)
	}
	return grid, nil
}

func (s *s3Sheet) store(ctx context.Context, grid [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(grid); err != nil {
		return fmt.Errorf("sheets: encode %s: %w", s.key, err)
	}
	_, err := s.book.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.book.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("sheets: put s3://%s/%s: %w", s.book.bucket, s.key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
