// Package app drives one invocation from provider selection to printed
// results.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	awslib "cloudpwn/internal/aws"
	"cloudpwn/internal/aws/enumerators"
	"cloudpwn/internal/config"
	"cloudpwn/internal/logging"
	"cloudpwn/internal/output"
)

// ProviderAWS is the only supported provider
const ProviderAWS = "aws"

// ConfirmPrompt is asked before any AWS call is made
const ConfirmPrompt = "Are you sure you want to perform AWS enumerations?"

// ErrProfileRequired is returned when the aws provider is selected without a profile
var ErrProfileRequired = errors.New("a profile is required for the aws provider, use --profile")

// State is a step of an invocation
type State int

const (
	AwaitingProvider State = iota
	AwaitingProfile
	AwaitingConfirmation
	Running
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingProvider:
		return "awaiting provider"
	case AwaitingProfile:
		return "awaiting profile"
	case AwaitingConfirmation:
		return "awaiting confirmation"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Confirmer asks the user a yes/no question
type Confirmer func(prompt string) (bool, error)

// StdinConfirmer reads a y/N answer from in. Anything but y or yes declines.
func StdinConfirmer(in io.Reader, out io.Writer) Confirmer {
	reader := bufio.NewReader(in)
	return func(prompt string) (bool, error) {
		fmt.Fprintf(out, "%s (y/N): ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// Request is what the user asked for on the command line
type Request struct {
	Provider string
	Profile  string
	// Services is a comma-separated service list; empty runs a full-account scan
	Services string
	// Region overrides Settings.Region for single-service enumeration
	Region string
}

// Runner executes requests. Zero-valued fields fall back to real AWS
// sessions, the full registry, stdin confirmation and stdout.
type Runner struct {
	Settings config.Settings
	Registry *awslib.Registry
	Connect  awslib.Connector
	Confirm  Confirmer
	Out      io.Writer

	// Progress receives the spinner; nil disables it
	Progress io.Writer

	// Writer persists full-account CSV files; nil builds one from Settings
	Writer *output.Writer

	Now func() time.Time

	state State
}

// State returns the last state reached
func (r *Runner) State() State {
	return r.state
}

// Run walks the request through its states. A declined confirmation or an
// unsupported provider is not an error.
func (r *Runner) Run(ctx context.Context, req Request) error {
	r.defaults()
	r.state = AwaitingProvider

	if !strings.EqualFold(strings.TrimSpace(req.Provider), ProviderAWS) {
		fmt.Fprintf(r.Out, "Provider %s is not supported yet\n", req.Provider)
		r.state = Done
		return nil
	}

	r.state = AwaitingProfile
	profile := strings.TrimSpace(req.Profile)
	if profile == "" {
		return ErrProfileRequired
	}
	if !awslib.HasProfile(profile) {
		logging.Warn("Profile not found in local AWS config files", map[string]interface{}{
			"profile": profile,
		})
	}

	r.state = AwaitingConfirmation
	if !r.Settings.AssumeYes {
		ok, err := r.Confirm(ConfirmPrompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(r.Out, "Exiting...")
			r.state = Done
			return nil
		}
	}

	r.state = Running
	limiters := awslib.NewRateLimiters(r.Settings.RateLimit())
	defer limiters.Stop()
	d := awslib.NewDispatcher(r.Registry, r.Connect, awslib.WithRateLimiters(limiters))

	var err error
	if strings.TrimSpace(req.Services) == "" {
		err = r.fullScan(ctx, d, profile)
	} else {
		region := strings.TrimSpace(req.Region)
		if region == "" {
			region = r.Settings.Region
		}
		err = r.enumerate(ctx, d, awslib.Scope{Profile: profile, Region: region}, req.Services)
	}
	r.state = Done
	return err
}

func (r *Runner) defaults() {
	if r.Out == nil {
		r.Out = os.Stdout
	}
	if r.Registry == nil {
		r.Registry = enumerators.NewRegistry()
	}
	if r.Connect == nil {
		r.Connect = awslib.SessionConnector
	}
	if r.Confirm == nil {
		r.Confirm = StdinConfirmer(os.Stdin, r.Out)
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	if r.Writer == nil {
		r.Writer = output.NewWriter(output.ConfigFromSettings(r.Settings))
	}
}

// enumerate dispatches each named service in turn. Unsupported names are
// reported and skipped.
func (r *Runner) enumerate(ctx context.Context, d *awslib.Dispatcher, scope awslib.Scope, services string) error {
	printer := output.NewPrinter(r.Out)
	for _, name := range strings.Split(services, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		stop := r.spin()
		reports, err := d.DispatchName(ctx, name, scope)
		stop()

		var unsupported *awslib.UnsupportedServiceError
		if errors.As(err, &unsupported) {
			fmt.Fprintln(r.Out, unsupported.Error())
			continue
		}
		if perr := printer.PrintAll(reports); perr != nil {
			return perr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// fullScan runs the configured services across the configured regions,
// prints a summary and persists one CSV per resource kind
func (r *Runner) fullScan(ctx context.Context, d *awslib.Dispatcher, profile string) error {
	agg, err := awslib.NewAggregator(d, r.Settings.Regions, r.Settings.FullScanServices, r.Settings.MaxWorkers)
	if err != nil {
		return err
	}

	stop := r.spin()
	reports, err := agg.Run(ctx, profile)
	stop()

	output.NewPrinter(r.Out).Summary(reports)
	if err != nil {
		return fmt.Errorf("enumeration interrupted: %w", err)
	}

	locations, err := r.Writer.Write(ctx, output.MergeReports(reports), r.Now())
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	for _, location := range locations {
		fmt.Fprintf(r.Out, "Results written to %s\n", location)
	}
	return nil
}

func (r *Runner) spin() func() {
	if r.Progress == nil {
		return func() {}
	}
	s := output.NewSpinner(r.Progress, "Processing...")
	s.Start()
	return s.Stop
}
