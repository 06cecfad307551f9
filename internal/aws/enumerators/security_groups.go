package enumerators

import (
	"context"
	"fmt"
	"strings"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"
)

// SecurityGroupEnumerator lists security groups with a summary of their inbound rules
type SecurityGroupEnumerator struct {
	clients *awslib.Clients
}

// NewSecurityGroups binds a SecurityGroupEnumerator to c
func NewSecurityGroups(c *awslib.Clients) awslib.Enumerator {
	return &SecurityGroupEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *SecurityGroupEnumerator) Name() string { return "security-groups" }

// Label implements Enumerator interface
func (e *SecurityGroupEnumerator) Label() string { return "Security Groups" }

// Headers implements Enumerator interface
func (e *SecurityGroupEnumerator) Headers() []string {
	return []string{"Group ID", "Group Name", "Region", "VPC ID", "Inbound Rules"}
}

// List implements Enumerator interface
func (e *SecurityGroupEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var groups []*ec2.SecurityGroup

	err := e.clients.EC2.DescribeSecurityGroupsPagesWithContext(ctx, &ec2.DescribeSecurityGroupsInput{},
		func(page *ec2.DescribeSecurityGroupsOutput, lastPage bool) bool {
			groups = append(groups, page.SecurityGroups...)
			return true
		})
	if err != nil {
		return awslib.Failed("DescribeSecurityGroups", err)
	}

	rows := make([]awslib.Row, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, awslib.Row{
			awslib.StringValue(group.GroupId),
			awslib.StringValue(group.GroupName),
			region,
			awslib.StringValue(group.VpcId),
			e.inboundRules(ctx, group.GroupId),
		})
	}

	return awslib.Found(rows, "No security groups found")
}

// inboundRules resolves a group id to its ingress rules, e.g. "tcp 22 from 0.0.0.0/0"
func (e *SecurityGroupEnumerator) inboundRules(ctx context.Context, groupID *string) string {
	input := &ec2.DescribeSecurityGroupRulesInput{
		Filters: []*ec2.Filter{
			{
				Name:   aws.String("group-id"),
				Values: []*string{groupID},
			},
		},
	}

	var rules []string
	err := e.clients.EC2.DescribeSecurityGroupRulesPagesWithContext(ctx, input,
		func(page *ec2.DescribeSecurityGroupRulesOutput, lastPage bool) bool {
			for _, rule := range page.SecurityGroupRules {
				if aws.BoolValue(rule.IsEgress) {
					continue
				}
				rules = append(rules, formatRule(rule))
			}
			return true
		})
	if err != nil {
		return awslib.Placeholder
	}
	if len(rules) == 0 {
		return "None"
	}
	return strings.Join(rules, "; ")
}

func formatRule(rule *ec2.SecurityGroupRule) string {
	protocol := aws.StringValue(rule.IpProtocol)
	if protocol == "-1" {
		return "all traffic from " + ruleSource(rule)
	}
	return fmt.Sprintf("%s %s from %s", protocol, portRange(rule.FromPort, rule.ToPort), ruleSource(rule))
}

func portRange(from, to *int64) string {
	f, t := aws.Int64Value(from), aws.Int64Value(to)
	switch {
	case from == nil || f == -1:
		return "all"
	case f == t:
		return fmt.Sprintf("%d", f)
	default:
		return fmt.Sprintf("%d-%d", f, t)
	}
}

func ruleSource(rule *ec2.SecurityGroupRule) string {
	switch {
	case rule.CidrIpv4 != nil:
		return *rule.CidrIpv4
	case rule.CidrIpv6 != nil:
		return *rule.CidrIpv6
	case rule.PrefixListId != nil:
		return *rule.PrefixListId
	case rule.ReferencedGroupInfo != nil && rule.ReferencedGroupInfo.GroupId != nil:
		return *rule.ReferencedGroupInfo.GroupId
	default:
		return awslib.Placeholder
	}
}
