package enumerators

import (
	"context"
	"fmt"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/rds"
)

// RDSInstanceEnumerator lists RDS database instances
type RDSInstanceEnumerator struct {
	clients *awslib.Clients
}

// NewRDSInstances binds an RDSInstanceEnumerator to c
func NewRDSInstances(c *awslib.Clients) awslib.Enumerator {
	return &RDSInstanceEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *RDSInstanceEnumerator) Name() string { return "rds-instances" }

// Label implements Enumerator interface
func (e *RDSInstanceEnumerator) Label() string { return "RDS Instances" }

// Headers implements Enumerator interface
func (e *RDSInstanceEnumerator) Headers() []string {
	return []string{"Instance Identifier", "Region", "Engine", "Status", "Endpoint"}
}

// List implements Enumerator interface
func (e *RDSInstanceEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var rows []awslib.Row

	err := e.clients.RDS.DescribeDBInstancesPagesWithContext(ctx, &rds.DescribeDBInstancesInput{},
		func(page *rds.DescribeDBInstancesOutput, lastPage bool) bool {
			for _, db := range page.DBInstances {
				rows = append(rows, awslib.Row{
					awslib.StringValue(db.DBInstanceIdentifier),
					region,
					awslib.StringValue(db.Engine),
					awslib.StringValue(db.DBInstanceStatus),
					endpoint(db.Endpoint),
				})
			}
			return true
		})
	if err != nil {
		return awslib.Failed("DescribeDBInstances", err)
	}

	return awslib.Found(rows, "No RDS instances found")
}

func endpoint(ep *rds.Endpoint) string {
	if ep == nil || ep.Address == nil {
		return awslib.Placeholder
	}
	if ep.Port == nil {
		return *ep.Address
	}
	return fmt.Sprintf("%s:%d", *ep.Address, *ep.Port)
}

// RDSClusterEnumerator lists Aurora and Multi-AZ DB clusters
type RDSClusterEnumerator struct {
	clients *awslib.Clients
}

// NewRDSClusters binds an RDSClusterEnumerator to c
func NewRDSClusters(c *awslib.Clients) awslib.Enumerator {
	return &RDSClusterEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *RDSClusterEnumerator) Name() string { return "rds-clusters" }

// Label implements Enumerator interface
func (e *RDSClusterEnumerator) Label() string { return "RDS Clusters" }

// Headers implements Enumerator interface
func (e *RDSClusterEnumerator) Headers() []string {
	return []string{"Cluster Identifier", "Region", "Engine", "Status"}
}

// List implements Enumerator interface
func (e *RDSClusterEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var rows []awslib.Row

	err := e.clients.RDS.DescribeDBClustersPagesWithContext(ctx, &rds.DescribeDBClustersInput{},
		func(page *rds.DescribeDBClustersOutput, lastPage bool) bool {
			for _, cluster := range page.DBClusters {
				rows = append(rows, awslib.Row{
					awslib.StringValue(cluster.DBClusterIdentifier),
					region,
					awslib.StringValue(cluster.Engine),
					awslib.StringValue(cluster.Status),
				})
			}
			return true
		})
	if err != nil {
		return awslib.Failed("DescribeDBClusters", err)
	}

	return awslib.Found(rows, "No RDS clusters found")
}

// RDSSnapshotEnumerator lists manual and automated DB snapshots and
// whether each is shared publicly
type RDSSnapshotEnumerator struct {
	clients *awslib.Clients
}

// NewRDSSnapshots binds an RDSSnapshotEnumerator to c
func NewRDSSnapshots(c *awslib.Clients) awslib.Enumerator {
	return &RDSSnapshotEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *RDSSnapshotEnumerator) Name() string { return "rds-snapshots" }

// Label implements Enumerator interface
func (e *RDSSnapshotEnumerator) Label() string { return "RDS Snapshots" }

// Headers implements Enumerator interface
func (e *RDSSnapshotEnumerator) Headers() []string {
	return []string{"Snapshot Identifier", "Instance Identifier", "Region", "Status", "Public/Private"}
}

// List implements Enumerator interface
func (e *RDSSnapshotEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var snapshots []*rds.DBSnapshot

	err := e.clients.RDS.DescribeDBSnapshotsPagesWithContext(ctx, &rds.DescribeDBSnapshotsInput{},
		func(page *rds.DescribeDBSnapshotsOutput, lastPage bool) bool {
			snapshots = append(snapshots, page.DBSnapshots...)
			return true
		})
	if err != nil {
		return awslib.Failed("DescribeDBSnapshots", err)
	}

	rows := make([]awslib.Row, 0, len(snapshots))
	for _, snapshot := range snapshots {
		rows = append(rows, awslib.Row{
			awslib.StringValue(snapshot.DBSnapshotIdentifier),
			awslib.StringValue(snapshot.DBInstanceIdentifier),
			region,
			awslib.StringValue(snapshot.Status),
			e.visibility(ctx, snapshot.DBSnapshotIdentifier),
		})
	}

	return awslib.Found(rows, "No RDS snapshots found")
}

// visibility reports Public when the restore attribute lists "all"
func (e *RDSSnapshotEnumerator) visibility(ctx context.Context, snapshotID *string) string {
	out, err := e.clients.RDS.DescribeDBSnapshotAttributesWithContext(ctx, &rds.DescribeDBSnapshotAttributesInput{
		DBSnapshotIdentifier: snapshotID,
	})
	if err != nil || out.DBSnapshotAttributesResult == nil {
		return awslib.Placeholder
	}
	for _, attr := range out.DBSnapshotAttributesResult.DBSnapshotAttributes {
		if aws.StringValue(attr.AttributeName) != "restore" {
			continue
		}
		for _, value := range attr.AttributeValues {
			if aws.StringValue(value) == "all" {
				return visibility(true)
			}
		}
	}
	return visibility(false)
}
