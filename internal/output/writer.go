package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/schollz/progressbar/v3"

	awslib "cloudpwn/internal/aws"
	"cloudpwn/internal/config"
	"cloudpwn/internal/logging"
)

const (
	defaultMaxRetries        = 3
	defaultRetryDelay        = 2 * time.Second
	defaultPartSize          = 5 * 1024 * 1024 // 5MB
	defaultConcurrentUploads = 5
)

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// Config holds output configuration
type Config struct {
	Type      string
	OutputDir string
	S3Bucket  string
	S3Region  string
	Profile   string
	Retry     *RetryConfig

	// Progress receives the S3 upload progress bar; nil means os.Stderr
	Progress io.Writer
}

// ConfigFromSettings derives the writer configuration from run settings
func ConfigFromSettings(s config.Settings) Config {
	return Config{
		Type:      s.Output.Type,
		OutputDir: s.Output.Dir,
		S3Bucket:  s.Output.Bucket,
		S3Region:  s.Output.BucketRegion,
		Profile:   s.Profile,
	}
}

// Writer persists CSV files to the filesystem or an S3 bucket
type Writer struct {
	config   Config
	uploader s3manageriface.UploaderAPI
}

// WriterOption configures a Writer
type WriterOption func(*Writer)

// WithUploader replaces the S3 uploader built from the profile session
func WithUploader(u s3manageriface.UploaderAPI) WriterOption {
	return func(w *Writer) {
		w.uploader = u
	}
}

// NewWriter creates a new output writer with default settings
func NewWriter(cfg Config, opts ...WriterOption) *Writer {
	if cfg.Retry == nil {
		cfg.Retry = &RetryConfig{
			MaxRetries: defaultMaxRetries,
			RetryDelay: defaultRetryDelay,
		}
	}
	if cfg.Type == "" {
		cfg.Type = config.OutputFileSystem
	}
	if cfg.Type == config.OutputFileSystem && cfg.OutputDir == "" {
		cfg.OutputDir = config.DefaultOutputDir
	}
	if cfg.Progress == nil {
		cfg.Progress = os.Stderr
	}

	w := &Writer{config: cfg}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Location returns where a file is written: <dir>/<file> on the filesystem,
// YYYY/MM/DD/<file> in S3
func (w *Writer) Location(f CSVFile, t time.Time) string {
	name := f.FileName(t)
	if w.config.Type == config.OutputS3 {
		return path.Join(t.Format("2006/01/02"), name)
	}
	return filepath.Join(w.config.OutputDir, name)
}

// Write persists every file and returns the locations written. Files of the
// same kind and day are overwritten.
func (w *Writer) Write(ctx context.Context, files []CSVFile, t time.Time) ([]string, error) {
	locations := make([]string, 0, len(files))
	for _, f := range files {
		data, err := f.Bytes()
		if err != nil {
			return locations, err
		}

		location := w.Location(f, t)
		switch w.config.Type {
		case config.OutputFileSystem:
			err = w.writeToFileSystem(location, data)
		case config.OutputS3:
			err = w.writeToS3WithRetry(ctx, location, data)
		default:
			err = fmt.Errorf("unsupported output type: %s", w.config.Type)
		}
		if err != nil {
			return locations, err
		}

		logging.Info("Wrote results", map[string]interface{}{
			"kind":     f.Kind,
			"rows":     len(f.Rows),
			"location": location,
		})
		locations = append(locations, location)
	}
	return locations, nil
}

func (w *Writer) writeToFileSystem(file string, data []byte) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", file, err)
	}

	return nil
}

func (w *Writer) writeToS3WithRetry(ctx context.Context, key string, data []byte) error {
	if w.config.S3Bucket == "" {
		return fmt.Errorf("S3 bucket not specified")
	}

	var lastErr error
	for attempt := 0; attempt < w.config.Retry.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Warn("Retrying S3 upload", map[string]interface{}{
				"attempt": attempt + 1,
				"max":     w.config.Retry.MaxRetries,
				"error":   lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.config.Retry.RetryDelay):
			}
		}

		if err := w.writeToS3(ctx, key, data); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to upload to S3 after %d attempts: %w",
		w.config.Retry.MaxRetries, lastErr)
}

func (w *Writer) s3Uploader() (s3manageriface.UploaderAPI, error) {
	if w.uploader != nil {
		return w.uploader, nil
	}

	sess, err := awslib.NewSession(w.config.Profile, w.config.S3Region)
	if err != nil {
		return nil, err
	}
	w.uploader = s3manager.NewUploader(sess, func(u *s3manager.Uploader) {
		u.PartSize = defaultPartSize
		u.Concurrency = defaultConcurrentUploads
	})
	return w.uploader, nil
}

func (w *Writer) writeToS3(ctx context.Context, key string, data []byte) error {
	uploader, err := w.s3Uploader()
	if err != nil {
		return err
	}

	reader := &progressReader{
		reader: bytes.NewReader(data),
		bar: progressbar.NewOptions64(
			int64(len(data)),
			progressbar.OptionSetWriter(w.config.Progress),
			progressbar.OptionSetDescription("Uploading "+path.Base(key)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(15),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(w.config.Progress)
			}),
		),
	}

	_, err = uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:               aws.String(w.config.S3Bucket),
		Key:                  aws.String(key),
		Body:                 reader,
		ContentType:          aws.String("text/csv"),
		ServerSideEncryption: aws.String("aws:kms"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// progressReader wraps an io.Reader to track progress
type progressReader struct {
	reader io.Reader
	bar    *progressbar.ProgressBar
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if addErr := r.bar.Add(n); addErr != nil {
		logging.Debug("Failed to update progress bar", map[string]interface{}{
			"error": addErr.Error(),
		})
	}
	return n, err
}
