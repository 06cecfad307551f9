package aws

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/aws/aws-sdk-go/service/eks"
	"github.com/aws/aws-sdk-go/service/eks/eksiface"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/iam/iamiface"
	"github.com/aws/aws-sdk-go/service/rds"
	"github.com/aws/aws-sdk-go/service/rds/rdsiface"
	"github.com/aws/aws-sdk-go/service/route53"
	"github.com/aws/aws-sdk-go/service/route53/route53iface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"
)

// Scope is the (profile, region) pair an enumerator is bound to
type Scope struct {
	Profile string
	Region  string
}

func (s Scope) String() string {
	return fmt.Sprintf("%s/%s", s.Profile, s.Region)
}

// Clients holds the service clients of one scope. Fields are interfaces so
// tests can substitute fakes.
type Clients struct {
	Scope Scope

	EC2            ec2iface.EC2API
	SSM            ssmiface.SSMAPI
	RDS            rdsiface.RDSAPI
	SecretsManager secretsmanageriface.SecretsManagerAPI
	S3             s3iface.S3API
	EKS            eksiface.EKSAPI
	Route53        route53iface.Route53API
	IAM            iamiface.IAMAPI
	STS            stsiface.STSAPI
}

// NewClients creates every service client from a session already bound to
// the scope's region
func NewClients(sess *session.Session, scope Scope) *Clients {
	return &Clients{
		Scope:          scope,
		EC2:            ec2.New(sess),
		SSM:            ssm.New(sess),
		RDS:            rds.New(sess),
		SecretsManager: secretsmanager.New(sess),
		S3:             s3.New(sess),
		EKS:            eks.New(sess),
		Route53:        route53.New(sess),
		IAM:            iam.New(sess),
		STS:            sts.New(sess),
	}
}

// Connector produces the clients of a scope
type Connector func(scope Scope) (*Clients, error)

// SessionConnector builds clients from a shared-config profile session
func SessionConnector(scope Scope) (*Clients, error) {
	sess, err := NewSession(scope.Profile, scope.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session for %s: %w", scope, err)
	}
	return NewClients(sess, scope), nil
}
