package s3client

import (
	"bytes"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"text2phenotype.com/compound/logger"
)

type Config struct {
	BucketName  string `envconfig:"COMPOUND_S3_BUCKET" required:"true"`
	Region      string `envconfig:"COMPOUND_AWS_REGION" default:"us-east-1"`
	AwsEndpoint string `envconfig:"COMPOUND_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"COMPOUND_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"COMPOUND_AWS_ACCESS_KEY" default:""`
	MaxRetries  int    `envconfig:"COMPOUND_AWS_MAX_RETRIES" default:"4"`
}

// Client reads word lists from and writes reports to one bucket.
type Client struct {
	sess       *session.Session
	bucketName string
}

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

func New() (*Client, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		clientLogger.Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg Config) (*Client, error) {
	sess, err := session.NewSession(awsConfig(cfg))
	if err != nil {
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return nil, err
	}
	clientLogger.Info().
		Str("bucket", cfg.BucketName).
		Str("region", cfg.Region).
		Bool("static_credentials", cfg.AccessKeyID != "").
		Msg("S3 session initialized")
	return &Client{sess: sess, bucketName: cfg.BucketName}, nil
}

// awsConfig uses static credentials when both keys are set and the default
// credential chain otherwise. A custom endpoint switches to path style
// addressing, as local S3 stand-ins expect.
func awsConfig(cfg Config) *aws.Config {
	awsCfg := aws.NewConfig().
		WithRegion(cfg.Region).
		WithMaxRetries(cfg.MaxRetries)
	if cfg.AccessKeyID != "" && cfg.AccessKey != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKey, ""))
	}
	if cfg.AwsEndpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return awsCfg
}

func (client *Client) Upload(data string, key string) (*s3manager.UploadOutput, error) {
	keyLogger := clientLogger.With().Str("key", key).Str("bucket", client.bucketName).Logger()
	uploader := s3manager.NewUploader(client.sdkSession(key))
	keyLogger.Debug().Int("bytes", len(data)).Msg("Uploading the file")
	output, err := uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(client.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(data)),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		keyLogger.Error().Err(err).Msg("Failed to upload file")
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	return output, nil
}

func (client *Client) Download(key string) ([]byte, error) {
	keyLogger := clientLogger.With().Str("key", key).Str("bucket", client.bucketName).Logger()
	downloader := s3manager.NewDownloader(client.sdkSession(key))
	buf := aws.NewWriteAtBuffer([]byte{})

	keyLogger.Debug().Msg("Downloading file")
	size, err := downloader.Download(buf, &s3.GetObjectInput{
		Bucket: aws.String(client.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		keyLogger.Error().Err(err).Msg("Failed to download file")
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	keyLogger.Debug().Msgf("Downloaded %v bytes", size)
	return buf.Bytes(), nil
}

// Close exists so the worker can swap clients uniformly; sessions hold no
// connections of their own.
func (client *Client) Close() {}

func (client *Client) sdkSession(key string) *session.Session {
	sdkLog := sdkLogger.With().
		Str("key", key).
		Str("bucket", client.bucketName).Logger()
	return client.sess.Copy(&aws.Config{Logger: getLogger(sdkLog)})
}

type s3Logger struct {
	sdkLogger zerolog.Logger
}

func getLogger(sdkLogger zerolog.Logger) *s3Logger {
	return &s3Logger{sdkLogger}
}

func (logger *s3Logger) Log(v ...interface{}) {
	logger.sdkLogger.Debug().Msg(fmt.Sprint(v...))
}
