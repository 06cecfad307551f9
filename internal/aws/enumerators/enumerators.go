// Package enumerators holds one Enumerator per AWS resource kind and the
// registration table that groups them into services.
package enumerators

import (
	"strconv"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"
)

// Register adds every routine to r in the documented run order
func Register(r *awslib.Registry) {
	r.Register(awslib.ServiceEC2,
		NewEC2Instances,
		NewEBSVolumes,
		NewEBSSnapshots,
		NewElasticIPs,
		NewAMIs,
		NewSSMAgents,
		NewSecurityGroups,
	)
	r.Register(awslib.ServiceRDS,
		NewRDSInstances,
		NewRDSClusters,
		NewRDSSnapshots,
	)
	r.Register(awslib.ServiceSecrets, NewSecrets)
	r.Register(awslib.ServiceS3, NewS3Buckets)
	r.Register(awslib.ServiceEKS, NewEKSClusters)
	r.Register(awslib.ServiceRoute53,
		NewRoute53Zones,
		NewRoute53Records,
	)
	r.Register(awslib.ServiceIAM,
		NewIAMIdentity,
		NewIAMUsers,
		NewIAMGroups,
		NewIAMRoles,
		NewIAMPolicies,
	)
}

// NewRegistry returns a registry with every routine registered
func NewRegistry() *awslib.Registry {
	r := awslib.NewRegistry()
	Register(r)
	return r
}

// nameTag returns the value of the Name tag or the placeholder
func nameTag(tags []*ec2.Tag) string {
	for _, tag := range tags {
		if aws.StringValue(tag.Key) == "Name" {
			return awslib.StringValue(tag.Value)
		}
	}
	return awslib.Placeholder
}

func int64Value(p *int64) string {
	if p == nil {
		return awslib.Placeholder
	}
	return strconv.FormatInt(*p, 10)
}

func boolValue(p *bool) string {
	if p == nil {
		return awslib.Placeholder
	}
	return strconv.FormatBool(*p)
}

func visibility(public bool) string {
	if public {
		return "Public"
	}
	return "Private"
}
