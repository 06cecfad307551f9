package config

import (
	"runtime"
	"time"
)

// Output types for full-account CSV persistence
const (
	OutputFileSystem = "filesystem"
	OutputS3         = "s3"
)

// Settings holds the configuration for one run. It is built once by Load and
// passed explicitly to the components that need it.
type Settings struct {
	// Profile is the AWS shared-config profile to use
	Profile string

	// Region is the region used for single-service enumeration
	Region string

	// Regions is the ordered region list walked by a full-account scan
	Regions []string

	// FullScanServices is the service subset run per region in a full-account scan
	FullScanServices []string

	// MaxWorkers defines the maximum number of concurrent enumeration tasks
	MaxWorkers int

	// RequestsPerSecond paces routines per region; zero disables pacing
	RequestsPerSecond float64

	// LogFormat is the format for logging
	LogFormat string

	// LogLevel is the minimum level logged
	LogLevel string

	// AssumeYes skips the interactive confirmation
	AssumeYes bool

	Output OutputSettings
}

// OutputSettings controls where full-account CSV files go
type OutputSettings struct {
	Type         string
	Dir          string
	Bucket       string
	BucketRegion string
}

// RateLimit holds configuration for client-side request pacing
type RateLimit struct {
	// RequestsPerSecond is the number of routines allowed per second
	RequestsPerSecond float64
	// BaseDelay is the initial delay duration for backoff
	BaseDelay time.Duration
	// MaxDelay is the maximum delay duration for backoff
	MaxDelay time.Duration
}

const (
	DefaultRegion    = "us-east-1"
	DefaultOutputDir = "dist/aws"
)

// DefaultRegions is the region list scanned when none is configured.
var DefaultRegions = []string{
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
	"ca-central-1",
	"eu-west-1",
	"eu-west-2",
	"eu-central-1",
	"ap-south-1",
	"ap-southeast-1",
	"ap-southeast-2",
	"ap-northeast-1",
	"sa-east-1",
}

// DefaultFullScanServices is the service subset of a full-account scan.
var DefaultFullScanServices = []string{"ec2", "secrets", "rds"}

// DefaultMaxWorkers is 4x CPU cores since tasks are I/O bound
func DefaultMaxWorkers() int {
	return runtime.NumCPU() * 4
}

// RateLimit returns the pacing configuration derived from s.
func (s Settings) RateLimit() RateLimit {
	return RateLimit{
		RequestsPerSecond: s.RequestsPerSecond,
		BaseDelay:         time.Second,
		MaxDelay:          30 * time.Second,
	}
}
