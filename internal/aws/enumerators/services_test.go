package enumerators

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/eks"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/rds"
	"github.com/aws/aws-sdk-go/service/route53"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awslib "cloudpwn/internal/aws"
)

func TestSSMAgents(t *testing.T) {
	c := testClients()
	c.SSM = &fakeSSM{pages: []*ssm.DescribeInstanceInformationOutput{
		{InstanceInformationList: []*ssm.InstanceInformation{{
			InstanceId:   aws.String("i-0001"),
			ComputerName: aws.String("ip-10-0-0-1"),
			PingStatus:   aws.String("Online"),
			PlatformName: aws.String("Amazon Linux"),
			AgentVersion: aws.String("3.2.582.0"),
		}}},
		{InstanceInformationList: []*ssm.InstanceInformation{{
			InstanceId: aws.String("mi-0002"),
			PingStatus: aws.String("ConnectionLost"),
		}}},
	}}

	result := NewSSMAgents(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Equal(t, []awslib.Row{
		{"i-0001", "ip-10-0-0-1", testRegion, "Online", "Amazon Linux", "3.2.582.0"},
		{"mi-0002", awslib.Placeholder, testRegion, "ConnectionLost", awslib.Placeholder, awslib.Placeholder},
	}, result.Rows)
}

func TestSSMAgentsThrottled(t *testing.T) {
	c := testClients()
	c.SSM = &fakeSSM{err: awserr.New("ThrottlingException", "Rate exceeded", nil)}

	result := NewSSMAgents(c).List(context.Background())
	require.Equal(t, awslib.ResultFailed, result.Kind)
	assert.Equal(t, awslib.FailureThrottled, result.Failure.Kind)
}

func TestRDSInstances(t *testing.T) {
	c := testClients()
	c.RDS = &fakeRDS{instances: &rds.DescribeDBInstancesOutput{DBInstances: []*rds.DBInstance{
		{
			DBInstanceIdentifier: aws.String("orders"),
			Engine:               aws.String("postgres"),
			DBInstanceStatus:     aws.String("available"),
			Endpoint:             &rds.Endpoint{Address: aws.String("orders.abc.us-east-1.rds.amazonaws.com"), Port: aws.Int64(5432)},
		},
		{
			DBInstanceIdentifier: aws.String("creating"),
			Engine:               aws.String("mysql"),
			DBInstanceStatus:     aws.String("creating"),
		},
	}}}

	result := NewRDSInstances(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Equal(t, []awslib.Row{
		{"orders", testRegion, "postgres", "available", "orders.abc.us-east-1.rds.amazonaws.com:5432"},
		{"creating", testRegion, "mysql", "creating", awslib.Placeholder},
	}, result.Rows)
}

func TestRDSClustersFollowsMarker(t *testing.T) {
	c := testClients()
	c.RDS = &fakeRDS{clusterPages: map[string]*rds.DescribeDBClustersOutput{
		"": {
			DBClusters: []*rds.DBCluster{{DBClusterIdentifier: aws.String("aurora-1"), Engine: aws.String("aurora-mysql"), Status: aws.String("available")}},
			Marker:     aws.String("page-2"),
		},
		"page-2": {
			DBClusters: []*rds.DBCluster{{DBClusterIdentifier: aws.String("aurora-2"), Engine: aws.String("aurora-postgresql"), Status: aws.String("stopped")}},
		},
	}}

	result := NewRDSClusters(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Equal(t, []awslib.Row{
		{"aurora-1", testRegion, "aurora-mysql", "available"},
		{"aurora-2", testRegion, "aurora-postgresql", "stopped"},
	}, result.Rows)
}

func TestRDSClustersEmpty(t *testing.T) {
	c := testClients()
	c.RDS = &fakeRDS{clusterPages: map[string]*rds.DescribeDBClustersOutput{"": {}}}

	result := NewRDSClusters(c).List(context.Background())
	assert.Equal(t, "No RDS clusters found", result.String())
}

func TestRDSSnapshotsVisibility(t *testing.T) {
	c := testClients()
	c.RDS = &fakeRDS{
		snapshots: &rds.DescribeDBSnapshotsOutput{DBSnapshots: []*rds.DBSnapshot{
			{DBSnapshotIdentifier: aws.String("shared"), DBInstanceIdentifier: aws.String("orders"), Status: aws.String("available")},
			{DBSnapshotIdentifier: aws.String("private"), DBInstanceIdentifier: aws.String("orders"), Status: aws.String("available")},
			{DBSnapshotIdentifier: aws.String("unknown"), Status: aws.String("creating")},
		}},
		snapshotAttrs: map[string]*rds.DescribeDBSnapshotAttributesOutput{
			"shared": {DBSnapshotAttributesResult: &rds.DBSnapshotAttributesResult{DBSnapshotAttributes: []*rds.DBSnapshotAttribute{
				{AttributeName: aws.String("restore"), AttributeValues: aws.StringSlice([]string{"all"})},
			}}},
			"private": {DBSnapshotAttributesResult: &rds.DBSnapshotAttributesResult{DBSnapshotAttributes: []*rds.DBSnapshotAttribute{
				{AttributeName: aws.String("restore"), AttributeValues: aws.StringSlice([]string{"123456789012"})},
			}}},
		},
	}

	result := NewRDSSnapshots(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Equal(t, []awslib.Row{
		{"shared", "orders", testRegion, "available", "Public"},
		{"private", "orders", testRegion, "available", "Private"},
		{"unknown", awslib.Placeholder, testRegion, "creating", awslib.Placeholder},
	}, result.Rows)
}

func TestSecretsValues(t *testing.T) {
	c := testClients()
	c.SecretsManager = &fakeSecrets{
		names: []string{"db/creds", "api-token", "cert", "gone", "locked", "account", "pin", "trailing"},
		values: map[string]*secretsmanager.GetSecretValueOutput{
			"db/creds":  {SecretString: aws.String(`{"username":"admin","password":"hunter2"}`)},
			"api-token": {SecretString: aws.String("not-json-token")},
			"cert":      {SecretBinary: []byte{0x30, 0x82}},
			"account":   {SecretString: aws.String("123456789012345678")},
			"pin":       {SecretString: aws.String(`{"pin": 9007199254740993}`)},
			"trailing":  {SecretString: aws.String(`{"a":1} extra`)},
		},
		errs: map[string]error{
			"gone":   awserr.New(secretsmanager.ErrCodeResourceNotFoundException, "Secrets Manager can't find the specified secret.", nil),
			"locked": awserr.New(secretsmanager.ErrCodeDecryptionFailure, "KMS key is disabled", nil),
		},
	}

	result := NewSecrets(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Equal(t, []awslib.Row{
		{"db/creds", testRegion, `{"username":"admin","password":"hunter2"}`},
		{"api-token", testRegion, "not-json-token"},
		{"cert", testRegion, "Binary or unavailable secret"},
		{"gone", testRegion, "Secret 'gone' not found."},
		{"locked", testRegion, "Failed to decrypt secret 'locked': KMS key is disabled"},
		{"account", testRegion, "123456789012345678"},
		{"pin", testRegion, `{"pin": 9007199254740993}`},
		{"trailing", testRegion, `{"a":1} extra`},
	}, result.Rows)

	require.Len(t, result.Records, 8)
	first := result.Records[0].(SecretRecord)
	assert.Equal(t, "db/creds", first.Name)
	assert.Equal(t, map[string]interface{}{"username": "admin", "password": "hunter2"}, first.Value)
	assert.Equal(t, "not-json-token", result.Records[1].(SecretRecord).Value)
	assert.Equal(t, json.Number("123456789012345678"), result.Records[5].(SecretRecord).Value)
	assert.Equal(t, map[string]interface{}{"pin": json.Number("9007199254740993")}, result.Records[6].(SecretRecord).Value)
	assert.Equal(t, `{"a":1} extra`, result.Records[7].(SecretRecord).Value)

	data, err := json.Marshal(result.Records[6])
	require.NoError(t, err)
	assert.JSONEq(t, `{"Secret Name":"pin","Value":{"pin":9007199254740993}}`, string(data))
	assert.Contains(t, string(data), "9007199254740993")
}

func TestSecretsOtherRetrievalError(t *testing.T) {
	c := testClients()
	c.SecretsManager = &fakeSecrets{
		names: []string{"app"},
		errs:  map[string]error{"app": errAccessDenied},
	}

	result := NewSecrets(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Contains(t, result.Rows[0][2], "Error retrieving secret 'app': Access denied during GetSecretValue")
}

func TestSecretsEmptyAndFailed(t *testing.T) {
	c := testClients()
	c.SecretsManager = &fakeSecrets{}
	result := NewSecrets(c).List(context.Background())
	assert.Equal(t, "No secrets found in AWS Secrets Manager", result.String())
	assert.Nil(t, result.Records)

	c.SecretsManager = &fakeSecrets{err: errAccessDenied}
	result = NewSecrets(c).List(context.Background())
	assert.Equal(t, awslib.FailureDenied, result.Failure.Kind)
}

func TestS3BucketsLocation(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	c := testClients()
	c.S3 = &fakeS3{
		buckets: []*s3.Bucket{
			{Name: aws.String("logs"), CreationDate: aws.Time(created)},
			{Name: aws.String("legacy-eu")},
			{Name: aws.String("tokyo")},
			{Name: aws.String("locked")},
		},
		locations: map[string]string{
			"logs":      "",
			"legacy-eu": "EU",
			"tokyo":     "ap-northeast-1",
		},
	}

	result := NewS3Buckets(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Equal(t, []awslib.Row{
		{"logs", "us-east-1", "2024-05-06T07:08:09Z"},
		{"legacy-eu", "eu-west-1", awslib.Placeholder},
		{"tokyo", "ap-northeast-1", awslib.Placeholder},
		{"locked", awslib.Placeholder, awslib.Placeholder},
	}, result.Rows)
}

func TestS3BucketsEmpty(t *testing.T) {
	c := testClients()
	c.S3 = &fakeS3{}
	result := NewS3Buckets(c).List(context.Background())
	assert.Equal(t, "No buckets found in the account", result.String())
}

func TestEKSClusters(t *testing.T) {
	c := testClients()
	c.EKS = &fakeEKS{
		names: []string{"prod", "dev"},
		clusters: map[string]*eks.Cluster{
			"prod": {
				Version: aws.String("1.29"),
				ResourcesVpcConfig: &eks.VpcConfigResponse{
					EndpointPublicAccess: aws.Bool(true),
					PublicAccessCidrs:    aws.StringSlice([]string{"0.0.0.0/0", "10.0.0.0/8"}),
				},
			},
		},
	}

	result := NewEKSClusters(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Equal(t, []awslib.Row{
		{"prod", testRegion, "1.29", "true", "0.0.0.0/0, 10.0.0.0/8"},
		{"dev", testRegion, awslib.Placeholder, awslib.Placeholder, awslib.Placeholder},
	}, result.Rows)
}

func TestRoute53(t *testing.T) {
	c := testClients()
	c.Route53 = &fakeRoute53{
		zones: []*route53.HostedZone{
			{Id: aws.String("/hostedzone/Z1"), Name: aws.String("example.com."), Config: &route53.HostedZoneConfig{PrivateZone: aws.Bool(false)}, ResourceRecordSetCount: aws.Int64(2)},
			{Id: aws.String("/hostedzone/Z2"), Name: aws.String("internal.")},
		},
		records: map[string][]*route53.ResourceRecordSet{
			"/hostedzone/Z1": {
				{Name: aws.String("example.com."), Type: aws.String("NS"), TTL: aws.Int64(172800)},
				{Name: aws.String("www.example.com."), Type: aws.String("A")},
			},
		},
	}

	zones := NewRoute53Zones(c).List(context.Background())
	require.True(t, zones.HasRows())
	assert.Equal(t, []awslib.Row{
		{"Z1", "example.com.", "false", "2"},
		{"Z2", "internal.", awslib.Placeholder, awslib.Placeholder},
	}, zones.Rows)

	records := NewRoute53Records(c).List(context.Background())
	require.True(t, records.HasRows())
	assert.Equal(t, []awslib.Row{
		{"example.com.", "example.com.", "NS", "172800"},
		{"example.com.", "www.example.com.", "A", awslib.Placeholder},
		{"internal.", awslib.Placeholder, awslib.Placeholder, awslib.Placeholder},
	}, records.Rows)
}

func TestRoute53NoZones(t *testing.T) {
	c := testClients()
	c.Route53 = &fakeRoute53{}
	assert.Equal(t, "No hosted zones found in the account", NewRoute53Zones(c).List(context.Background()).String())
	assert.Equal(t, "No records found", NewRoute53Records(c).List(context.Background()).String())
}

func TestIAMIdentity(t *testing.T) {
	c := testClients()
	c.STS = &fakeSTS{out: &sts.GetCallerIdentityOutput{
		UserId:  aws.String("AIDAEXAMPLE"),
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/alice"),
	}}

	result := NewIAMIdentity(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Equal(t, awslib.Row{"AIDAEXAMPLE", "123456789012", "arn:aws:iam::123456789012:user/alice"}, result.Rows[0])

	c.STS = &fakeSTS{err: awserr.New("ExpiredToken", "The security token included in the request is expired", nil)}
	result = NewIAMIdentity(c).List(context.Background())
	assert.Equal(t, awslib.FailureDenied, result.Failure.Kind)
}

func TestIAMUsersAttachedPolicies(t *testing.T) {
	c := testClients()
	c.IAM = &fakeIAM{
		users: []*iam.User{
			{UserName: aws.String("alice"), Arn: aws.String("arn:aws:iam::123456789012:user/alice")},
			{UserName: aws.String("bob"), Arn: aws.String("arn:aws:iam::123456789012:user/bob")},
			{UserName: aws.String("carol")},
		},
		attached: map[string][]*iam.AttachedPolicy{
			"alice": {{PolicyName: aws.String("AdministratorAccess")}, {PolicyName: aws.String("ReadOnlyAccess")}},
			"bob":   {},
		},
	}

	result := NewIAMUsers(c).List(context.Background())
	require.True(t, result.HasRows())
	assert.Equal(t, []awslib.Row{
		{"alice", "arn:aws:iam::123456789012:user/alice", "AdministratorAccess, ReadOnlyAccess"},
		{"bob", "arn:aws:iam::123456789012:user/bob", "None"},
		{"carol", awslib.Placeholder, awslib.Placeholder},
	}, result.Rows)
}

func TestIAMEntityLists(t *testing.T) {
	fake := &fakeIAM{
		groups:   []*iam.Group{{GroupName: aws.String("admins"), Arn: aws.String("arn:aws:iam::123456789012:group/admins")}},
		roles:    []*iam.Role{{RoleName: aws.String("deploy"), Arn: aws.String("arn:aws:iam::123456789012:role/deploy")}},
		policies: []*iam.Policy{{PolicyName: aws.String("s3-write"), Arn: aws.String("arn:aws:iam::123456789012:policy/s3-write")}},
	}
	c := testClients()
	c.IAM = fake

	groups := NewIAMGroups(c).List(context.Background())
	assert.Equal(t, []awslib.Row{{"admins", "arn:aws:iam::123456789012:group/admins"}}, groups.Rows)

	roles := NewIAMRoles(c).List(context.Background())
	assert.Equal(t, []awslib.Row{{"deploy", "arn:aws:iam::123456789012:role/deploy"}}, roles.Rows)

	policies := NewIAMPolicies(c).List(context.Background())
	assert.Equal(t, []awslib.Row{{"s3-write", "arn:aws:iam::123456789012:policy/s3-write"}}, policies.Rows)
	assert.Equal(t, iam.PolicyScopeTypeLocal, fake.scope)
}

func TestIAMEmptyMessages(t *testing.T) {
	c := testClients()
	c.IAM = &fakeIAM{}

	assert.Equal(t, "No users found in the account", NewIAMUsers(c).List(context.Background()).String())
	assert.Equal(t, "No groups found in the account", NewIAMGroups(c).List(context.Background()).String())
	assert.Equal(t, "No roles found in the account", NewIAMRoles(c).List(context.Background()).String())
	assert.Equal(t, "No policies found in the account", NewIAMPolicies(c).List(context.Background()).String())
}
