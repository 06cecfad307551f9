package enumerators

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
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
	"github.com/stretchr/testify/mock"

	awslib "cloudpwn/internal/aws"
)

const testRegion = "us-east-1"

func testClients() *awslib.Clients {
	return &awslib.Clients{Scope: awslib.Scope{Profile: "test", Region: testRegion}}
}

// mockEC2 records calls through testify's mock. Methods that are not
// overridden panic through the nil embedded interface.
type mockEC2 struct {
	ec2iface.EC2API
	mock.Mock
}

func (m *mockEC2) DescribeInstancesPagesWithContext(ctx aws.Context, in *ec2.DescribeInstancesInput, fn func(*ec2.DescribeInstancesOutput, bool) bool, opts ...request.Option) error {
	args := m.Called(in)
	pages, _ := args.Get(0).([]*ec2.DescribeInstancesOutput)
	for i, page := range pages {
		if !fn(page, i == len(pages)-1) {
			break
		}
	}
	return args.Error(1)
}

func (m *mockEC2) DescribeVolumesPagesWithContext(ctx aws.Context, in *ec2.DescribeVolumesInput, fn func(*ec2.DescribeVolumesOutput, bool) bool, opts ...request.Option) error {
	args := m.Called(in)
	if out, ok := args.Get(0).(*ec2.DescribeVolumesOutput); ok {
		fn(out, true)
	}
	return args.Error(1)
}

func (m *mockEC2) DescribeSnapshotsPagesWithContext(ctx aws.Context, in *ec2.DescribeSnapshotsInput, fn func(*ec2.DescribeSnapshotsOutput, bool) bool, opts ...request.Option) error {
	args := m.Called(in)
	if out, ok := args.Get(0).(*ec2.DescribeSnapshotsOutput); ok {
		fn(out, true)
	}
	return args.Error(1)
}

func (m *mockEC2) DescribeSnapshotAttributeWithContext(ctx aws.Context, in *ec2.DescribeSnapshotAttributeInput, opts ...request.Option) (*ec2.DescribeSnapshotAttributeOutput, error) {
	args := m.Called(aws.StringValue(in.SnapshotId))
	out, _ := args.Get(0).(*ec2.DescribeSnapshotAttributeOutput)
	return out, args.Error(1)
}

func (m *mockEC2) DescribeAddressesWithContext(ctx aws.Context, in *ec2.DescribeAddressesInput, opts ...request.Option) (*ec2.DescribeAddressesOutput, error) {
	args := m.Called(in)
	out, _ := args.Get(0).(*ec2.DescribeAddressesOutput)
	return out, args.Error(1)
}

func (m *mockEC2) DescribeImagesWithContext(ctx aws.Context, in *ec2.DescribeImagesInput, opts ...request.Option) (*ec2.DescribeImagesOutput, error) {
	args := m.Called(in)
	out, _ := args.Get(0).(*ec2.DescribeImagesOutput)
	return out, args.Error(1)
}

func (m *mockEC2) DescribeSecurityGroupsPagesWithContext(ctx aws.Context, in *ec2.DescribeSecurityGroupsInput, fn func(*ec2.DescribeSecurityGroupsOutput, bool) bool, opts ...request.Option) error {
	args := m.Called(in)
	if out, ok := args.Get(0).(*ec2.DescribeSecurityGroupsOutput); ok {
		fn(out, true)
	}
	return args.Error(1)
}

func (m *mockEC2) DescribeSecurityGroupRulesPagesWithContext(ctx aws.Context, in *ec2.DescribeSecurityGroupRulesInput, fn func(*ec2.DescribeSecurityGroupRulesOutput, bool) bool, opts ...request.Option) error {
	groupID := aws.StringValue(in.Filters[0].Values[0])
	args := m.Called(groupID)
	if out, ok := args.Get(0).(*ec2.DescribeSecurityGroupRulesOutput); ok {
		fn(out, true)
	}
	return args.Error(1)
}

type fakeSSM struct {
	ssmiface.SSMAPI
	pages []*ssm.DescribeInstanceInformationOutput
	err   error
}

func (f *fakeSSM) DescribeInstanceInformationPagesWithContext(ctx aws.Context, in *ssm.DescribeInstanceInformationInput, fn func(*ssm.DescribeInstanceInformationOutput, bool) bool, opts ...request.Option) error {
	for i, page := range f.pages {
		if !fn(page, i == len(f.pages)-1) {
			break
		}
	}
	return f.err
}

type fakeRDS struct {
	rdsiface.RDSAPI
	instances     *rds.DescribeDBInstancesOutput
	clusterPages  map[string]*rds.DescribeDBClustersOutput
	snapshots     *rds.DescribeDBSnapshotsOutput
	snapshotAttrs map[string]*rds.DescribeDBSnapshotAttributesOutput
	err           error
}

func (f *fakeRDS) DescribeDBInstancesPagesWithContext(ctx aws.Context, in *rds.DescribeDBInstancesInput, fn func(*rds.DescribeDBInstancesOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	fn(f.instances, true)
	return nil
}

// DescribeDBClustersPagesWithContext walks clusterPages by Marker, starting at ""
func (f *fakeRDS) DescribeDBClustersPagesWithContext(ctx aws.Context, in *rds.DescribeDBClustersInput, fn func(*rds.DescribeDBClustersOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	marker := aws.StringValue(in.Marker)
	for {
		page := f.clusterPages[marker]
		if page == nil {
			return nil
		}
		next := aws.StringValue(page.Marker)
		if !fn(page, next == "") || next == "" {
			return nil
		}
		marker = next
	}
}

func (f *fakeRDS) DescribeDBSnapshotsPagesWithContext(ctx aws.Context, in *rds.DescribeDBSnapshotsInput, fn func(*rds.DescribeDBSnapshotsOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	fn(f.snapshots, true)
	return nil
}

func (f *fakeRDS) DescribeDBSnapshotAttributesWithContext(ctx aws.Context, in *rds.DescribeDBSnapshotAttributesInput, opts ...request.Option) (*rds.DescribeDBSnapshotAttributesOutput, error) {
	out, ok := f.snapshotAttrs[aws.StringValue(in.DBSnapshotIdentifier)]
	if !ok {
		return nil, errAccessDenied
	}
	return out, nil
}

type fakeSecrets struct {
	secretsmanageriface.SecretsManagerAPI
	names  []string
	values map[string]*secretsmanager.GetSecretValueOutput
	errs   map[string]error
	err    error
}

func (f *fakeSecrets) ListSecretsPagesWithContext(ctx aws.Context, in *secretsmanager.ListSecretsInput, fn func(*secretsmanager.ListSecretsOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	page := &secretsmanager.ListSecretsOutput{}
	for _, name := range f.names {
		page.SecretList = append(page.SecretList, &secretsmanager.SecretListEntry{Name: aws.String(name)})
	}
	fn(page, true)
	return nil
}

func (f *fakeSecrets) GetSecretValueWithContext(ctx aws.Context, in *secretsmanager.GetSecretValueInput, opts ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	name := aws.StringValue(in.SecretId)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	return f.values[name], nil
}

type fakeS3 struct {
	s3iface.S3API
	buckets   []*s3.Bucket
	locations map[string]string
	err       error
}

func (f *fakeS3) ListBucketsWithContext(ctx aws.Context, in *s3.ListBucketsInput, opts ...request.Option) (*s3.ListBucketsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.ListBucketsOutput{Buckets: f.buckets}, nil
}

func (f *fakeS3) GetBucketLocationWithContext(ctx aws.Context, in *s3.GetBucketLocationInput, opts ...request.Option) (*s3.GetBucketLocationOutput, error) {
	loc, ok := f.locations[aws.StringValue(in.Bucket)]
	if !ok {
		return nil, errAccessDenied
	}
	out := &s3.GetBucketLocationOutput{}
	if loc != "" {
		out.LocationConstraint = aws.String(loc)
	}
	return out, nil
}

type fakeEKS struct {
	eksiface.EKSAPI
	clusters map[string]*eks.Cluster
	names    []string
	err      error
}

func (f *fakeEKS) ListClustersPagesWithContext(ctx aws.Context, in *eks.ListClustersInput, fn func(*eks.ListClustersOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	fn(&eks.ListClustersOutput{Clusters: aws.StringSlice(f.names)}, true)
	return nil
}

func (f *fakeEKS) DescribeClusterWithContext(ctx aws.Context, in *eks.DescribeClusterInput, opts ...request.Option) (*eks.DescribeClusterOutput, error) {
	cluster, ok := f.clusters[aws.StringValue(in.Name)]
	if !ok {
		return nil, errAccessDenied
	}
	return &eks.DescribeClusterOutput{Cluster: cluster}, nil
}

type fakeRoute53 struct {
	route53iface.Route53API
	zones   []*route53.HostedZone
	records map[string][]*route53.ResourceRecordSet
	err     error
}

func (f *fakeRoute53) ListHostedZonesPagesWithContext(ctx aws.Context, in *route53.ListHostedZonesInput, fn func(*route53.ListHostedZonesOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	fn(&route53.ListHostedZonesOutput{HostedZones: f.zones}, true)
	return nil
}

func (f *fakeRoute53) ListResourceRecordSetsPagesWithContext(ctx aws.Context, in *route53.ListResourceRecordSetsInput, fn func(*route53.ListResourceRecordSetsOutput, bool) bool, opts ...request.Option) error {
	records, ok := f.records[aws.StringValue(in.HostedZoneId)]
	if !ok {
		return errAccessDenied
	}
	fn(&route53.ListResourceRecordSetsOutput{ResourceRecordSets: records}, true)
	return nil
}

type fakeIAM struct {
	iamiface.IAMAPI
	users    []*iam.User
	attached map[string][]*iam.AttachedPolicy
	groups   []*iam.Group
	roles    []*iam.Role
	policies []*iam.Policy
	scope    string
	err      error
}

func (f *fakeIAM) ListUsersPagesWithContext(ctx aws.Context, in *iam.ListUsersInput, fn func(*iam.ListUsersOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	fn(&iam.ListUsersOutput{Users: f.users}, true)
	return nil
}

func (f *fakeIAM) ListAttachedUserPoliciesPagesWithContext(ctx aws.Context, in *iam.ListAttachedUserPoliciesInput, fn func(*iam.ListAttachedUserPoliciesOutput, bool) bool, opts ...request.Option) error {
	policies, ok := f.attached[aws.StringValue(in.UserName)]
	if !ok {
		return errAccessDenied
	}
	fn(&iam.ListAttachedUserPoliciesOutput{AttachedPolicies: policies}, true)
	return nil
}

func (f *fakeIAM) ListGroupsPagesWithContext(ctx aws.Context, in *iam.ListGroupsInput, fn func(*iam.ListGroupsOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	fn(&iam.ListGroupsOutput{Groups: f.groups}, true)
	return nil
}

func (f *fakeIAM) ListRolesPagesWithContext(ctx aws.Context, in *iam.ListRolesInput, fn func(*iam.ListRolesOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	fn(&iam.ListRolesOutput{Roles: f.roles}, true)
	return nil
}

func (f *fakeIAM) ListPoliciesPagesWithContext(ctx aws.Context, in *iam.ListPoliciesInput, fn func(*iam.ListPoliciesOutput, bool) bool, opts ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	f.scope = aws.StringValue(in.Scope)
	fn(&iam.ListPoliciesOutput{Policies: f.policies}, true)
	return nil
}

type fakeSTS struct {
	stsiface.STSAPI
	out *sts.GetCallerIdentityOutput
	err error
}

func (f *fakeSTS) GetCallerIdentityWithContext(ctx aws.Context, in *sts.GetCallerIdentityInput, opts ...request.Option) (*sts.GetCallerIdentityOutput, error) {
	return f.out, f.err
}
