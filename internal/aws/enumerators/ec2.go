package enumerators

import (
	"context"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"
)

// EC2InstanceEnumerator lists EC2 instances
type EC2InstanceEnumerator struct {
	clients *awslib.Clients
}

// NewEC2Instances binds an EC2InstanceEnumerator to c
func NewEC2Instances(c *awslib.Clients) awslib.Enumerator {
	return &EC2InstanceEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *EC2InstanceEnumerator) Name() string {
	return "ec2-instances"
}

// Label implements Enumerator interface
func (e *EC2InstanceEnumerator) Label() string {
	return "EC2 Instances"
}

// Headers implements Enumerator interface
func (e *EC2InstanceEnumerator) Headers() []string {
	return []string{"Instance ID", "Instance Name", "Region", "State", "Public IP"}
}

// List implements Enumerator interface
func (e *EC2InstanceEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var rows []awslib.Row

	err := e.clients.EC2.DescribeInstancesPagesWithContext(ctx, &ec2.DescribeInstancesInput{},
		func(page *ec2.DescribeInstancesOutput, lastPage bool) bool {
			for _, reservation := range page.Reservations {
				for _, instance := range reservation.Instances {
					state := awslib.Placeholder
					if instance.State != nil {
						state = awslib.StringValue(instance.State.Name)
					}
					rows = append(rows, awslib.Row{
						awslib.StringValue(instance.InstanceId),
						nameTag(instance.Tags),
						region,
						state,
						awslib.StringValue(instance.PublicIpAddress),
					})
				}
			}
			return true
		})
	if err != nil {
		return awslib.Failed("DescribeInstances", err)
	}

	return awslib.Found(rows, "No instances found")
}

// EBSVolumeEnumerator lists EBS volumes and the instance each is attached to
type EBSVolumeEnumerator struct {
	clients *awslib.Clients
}

// NewEBSVolumes binds an EBSVolumeEnumerator to c
func NewEBSVolumes(c *awslib.Clients) awslib.Enumerator {
	return &EBSVolumeEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *EBSVolumeEnumerator) Name() string { return "ebs-volumes" }

// Label implements Enumerator interface
func (e *EBSVolumeEnumerator) Label() string { return "EBS Volumes" }

// Headers implements Enumerator interface
func (e *EBSVolumeEnumerator) Headers() []string {
	return []string{"Volume ID", "Volume Name", "Region", "Size (GiB)", "State", "Attached Instance"}
}

// List implements Enumerator interface
func (e *EBSVolumeEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var rows []awslib.Row

	err := e.clients.EC2.DescribeVolumesPagesWithContext(ctx, &ec2.DescribeVolumesInput{},
		func(page *ec2.DescribeVolumesOutput, lastPage bool) bool {
			for _, volume := range page.Volumes {
				attached := awslib.Placeholder
				if len(volume.Attachments) > 0 {
					attached = awslib.StringValue(volume.Attachments[0].InstanceId)
				}
				rows = append(rows, awslib.Row{
					awslib.StringValue(volume.VolumeId),
					nameTag(volume.Tags),
					region,
					int64Value(volume.Size),
					awslib.StringValue(volume.State),
					attached,
				})
			}
			return true
		})
	if err != nil {
		return awslib.Failed("DescribeVolumes", err)
	}

	return awslib.Found(rows, "No volumes found")
}

// EBSSnapshotEnumerator lists snapshots owned by the account and whether
// each can be restored by anyone
type EBSSnapshotEnumerator struct {
	clients *awslib.Clients
}

// NewEBSSnapshots binds an EBSSnapshotEnumerator to c
func NewEBSSnapshots(c *awslib.Clients) awslib.Enumerator {
	return &EBSSnapshotEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *EBSSnapshotEnumerator) Name() string { return "ebs-snapshots" }

// Label implements Enumerator interface
func (e *EBSSnapshotEnumerator) Label() string { return "EBS Snapshots" }

// Headers implements Enumerator interface
func (e *EBSSnapshotEnumerator) Headers() []string {
	return []string{"Snapshot ID", "Volume ID", "Region", "Size (GiB)", "State", "Public/Private"}
}

// List implements Enumerator interface
func (e *EBSSnapshotEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var snapshots []*ec2.Snapshot

	input := &ec2.DescribeSnapshotsInput{
		OwnerIds: []*string{aws.String("self")},
	}
	err := e.clients.EC2.DescribeSnapshotsPagesWithContext(ctx, input,
		func(page *ec2.DescribeSnapshotsOutput, lastPage bool) bool {
			snapshots = append(snapshots, page.Snapshots...)
			return true
		})
	if err != nil {
		return awslib.Failed("DescribeSnapshots", err)
	}

	rows := make([]awslib.Row, 0, len(snapshots))
	for _, snapshot := range snapshots {
		rows = append(rows, awslib.Row{
			awslib.StringValue(snapshot.SnapshotId),
			awslib.StringValue(snapshot.VolumeId),
			region,
			int64Value(snapshot.VolumeSize),
			awslib.StringValue(snapshot.State),
			e.visibility(ctx, snapshot.SnapshotId),
		})
	}

	return awslib.Found(rows, "No snapshots found")
}

// visibility reports Public when the createVolumePermission attribute grants the "all" group
func (e *EBSSnapshotEnumerator) visibility(ctx context.Context, snapshotID *string) string {
	out, err := e.clients.EC2.DescribeSnapshotAttributeWithContext(ctx, &ec2.DescribeSnapshotAttributeInput{
		Attribute:  aws.String(ec2.SnapshotAttributeNameCreateVolumePermission),
		SnapshotId: snapshotID,
	})
	if err != nil {
		return awslib.Placeholder
	}
	for _, perm := range out.CreateVolumePermissions {
		if aws.StringValue(perm.Group) == ec2.PermissionGroupAll {
			return visibility(true)
		}
	}
	return visibility(false)
}

// ElasticIPEnumerator lists allocated Elastic IP addresses
type ElasticIPEnumerator struct {
	clients *awslib.Clients
}

// NewElasticIPs binds an ElasticIPEnumerator to c
func NewElasticIPs(c *awslib.Clients) awslib.Enumerator {
	return &ElasticIPEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *ElasticIPEnumerator) Name() string { return "elastic-ips" }

// Label implements Enumerator interface
func (e *ElasticIPEnumerator) Label() string { return "Elastic IPs" }

// Headers implements Enumerator interface
func (e *ElasticIPEnumerator) Headers() []string {
	return []string{"Public IP", "Allocation ID", "Region", "Instance ID", "Association ID"}
}

// List implements Enumerator interface
func (e *ElasticIPEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region

	out, err := e.clients.EC2.DescribeAddressesWithContext(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return awslib.Failed("DescribeAddresses", err)
	}

	rows := make([]awslib.Row, 0, len(out.Addresses))
	for _, addr := range out.Addresses {
		rows = append(rows, awslib.Row{
			awslib.StringValue(addr.PublicIp),
			awslib.StringValue(addr.AllocationId),
			region,
			awslib.StringValue(addr.InstanceId),
			awslib.StringValue(addr.AssociationId),
		})
	}

	return awslib.Found(rows, "No elastic IPs found")
}

// AMIEnumerator lists machine images owned by the account
type AMIEnumerator struct {
	clients *awslib.Clients
}

// NewAMIs binds an AMIEnumerator to c
func NewAMIs(c *awslib.Clients) awslib.Enumerator {
	return &AMIEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *AMIEnumerator) Name() string { return "amis" }

// Label implements Enumerator interface
func (e *AMIEnumerator) Label() string { return "AMIs" }

// Headers implements Enumerator interface
func (e *AMIEnumerator) Headers() []string {
	return []string{"Image ID", "Image Name", "Region", "State", "Public/Private", "Creation Date"}
}

// List implements Enumerator interface
func (e *AMIEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region

	out, err := e.clients.EC2.DescribeImagesWithContext(ctx, &ec2.DescribeImagesInput{
		Owners: []*string{aws.String("self")},
	})
	if err != nil {
		return awslib.Failed("DescribeImages", err)
	}

	rows := make([]awslib.Row, 0, len(out.Images))
	for _, image := range out.Images {
		public := awslib.Placeholder
		if image.Public != nil {
			public = visibility(*image.Public)
		}
		rows = append(rows, awslib.Row{
			awslib.StringValue(image.ImageId),
			awslib.StringValue(image.Name),
			region,
			awslib.StringValue(image.State),
			public,
			awslib.StringValue(image.CreationDate),
		})
	}

	return awslib.Found(rows, "No images found")
}
