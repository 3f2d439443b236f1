// Package s3 guarda el slot como un objeto en un bucket S3 (o compatible:
// MinIO, SeaweedFS).
package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"actas-mantenimiento/internal/domain/actas"
)

// objectAPI es el subconjunto de *s3.Client que usa el repo.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Options struct {
	Endpoint       string // vacío = AWS
	Region         string
	Bucket         string
	Prefix         string
	AccessKey      string // vacío = cadena de credenciales por defecto
	SecretKey      string
	ForcePathStyle bool
}

type SlotRepo struct {
	api    objectAPI
	bucket string
	key    string
}

// NewClient arma el cliente del SDK v2 para el endpoint configurado.
func NewClient(ctx context.Context, opts Options) (*s3.Client, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		if opts.AccessKey == "" || opts.SecretKey == "" {
			return nil, errors.New("s3 access key and secret key must be set together")
		}
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.ForcePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// NewSlotRepo guarda el slot key en <prefix>/<key>.json dentro del bucket.
func NewSlotRepo(api objectAPI, bucket, prefix, key string) *SlotRepo {
	return &SlotRepo{
		api:    api,
		bucket: bucket,
		key:    path.Join(strings.Trim(prefix, "/"), key+".json"),
	}
}

func (r *SlotRepo) Read(ctx context.Context) ([]byte, error) {
	out, err := r.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, actas.ErrSlotEmpty
		}
		return nil, fmt.Errorf("s3 get %s: %w", r.key, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", r.key, err)
	}
	return b, nil
}

// Write sube el blob completo con checksum SHA-256 verificado por el servidor.
func (r *SlotRepo) Write(ctx context.Context, blob []byte) error {
	sum := sha256.Sum256(blob)

	_, err := r.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(r.bucket),
		Key:               aws.String(r.key),
		Body:              bytes.NewReader(blob),
		ContentLength:     aws.Int64(int64(len(blob))),
		ContentType:       aws.String("application/json"),
		ChecksumAlgorithm: s3types.ChecksumAlgorithmSha256,
		ChecksumSHA256:    aws.String(base64.StdEncoding.EncodeToString(sum[:])),
		Metadata: map[string]string{
			"sha256": hex.EncodeToString(sum[:]),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", r.key, err)
	}
	return nil
}
