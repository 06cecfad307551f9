package enumerators

import (
	"context"
	"strings"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/eks"
)

// EKSClusterEnumerator lists EKS clusters and how their API endpoint is exposed
type EKSClusterEnumerator struct {
	clients *awslib.Clients
}

// NewEKSClusters binds an EKSClusterEnumerator to c
func NewEKSClusters(c *awslib.Clients) awslib.Enumerator {
	return &EKSClusterEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *EKSClusterEnumerator) Name() string { return "eks-clusters" }

// Label implements Enumerator interface
func (e *EKSClusterEnumerator) Label() string { return "EKS Clusters" }

// Headers implements Enumerator interface
func (e *EKSClusterEnumerator) Headers() []string {
	return []string{"Cluster Name", "Region", "Version", "Endpoint Public Access", "Public Access CIDRs"}
}

// List implements Enumerator interface
func (e *EKSClusterEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var names []*string

	err := e.clients.EKS.ListClustersPagesWithContext(ctx, &eks.ListClustersInput{},
		func(page *eks.ListClustersOutput, lastPage bool) bool {
			names = append(names, page.Clusters...)
			return true
		})
	if err != nil {
		return awslib.Failed("ListClusters", err)
	}

	rows := make([]awslib.Row, 0, len(names))
	for _, name := range names {
		row := awslib.Row{aws.StringValue(name), region, awslib.Placeholder, awslib.Placeholder, awslib.Placeholder}

		out, err := e.clients.EKS.DescribeClusterWithContext(ctx, &eks.DescribeClusterInput{Name: name})
		if err == nil && out.Cluster != nil {
			row[2] = awslib.StringValue(out.Cluster.Version)
			if vpc := out.Cluster.ResourcesVpcConfig; vpc != nil {
				row[3] = boolValue(vpc.EndpointPublicAccess)
				if cidrs := aws.StringValueSlice(vpc.PublicAccessCidrs); len(cidrs) > 0 {
					row[4] = strings.Join(cidrs, ", ")
				}
			}
		}
		rows = append(rows, row)
	}

	return awslib.Found(rows, "No EKS clusters found")
}
