package aws

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"

	"cloudpwn/internal/logging"
)

// requestTimeout bounds a single HTTP round trip to the AWS APIs
const requestTimeout = 25 * time.Second

// NewSession creates a new AWS session with the specified profile and region
func NewSession(profile string, region string) (*session.Session, error) {
	cfg := aws.NewConfig().WithHTTPClient(&http.Client{Timeout: requestTimeout})
	if region != "" {
		cfg = cfg.WithRegion(region)
	}

	opts := session.Options{
		Config:            *cfg,
		Profile:           profile,
		SharedConfigState: session.SharedConfigEnable,
	}

	sess, err := session.NewSessionWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	logging.Debug("Created AWS session", map[string]interface{}{
		"profile": profile,
		"region":  aws.StringValue(sess.Config.Region),
	})
	return sess, nil
}

// CallerAccount returns the account id the session's credentials belong to
func CallerAccount(sess *session.Session) (string, error) {
	identity, err := sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return aws.StringValue(identity.Account), nil
}
