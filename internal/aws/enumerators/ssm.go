package enumerators

import (
	"context"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/service/ssm"
)

// SSMAgentEnumerator lists instances registered with Systems Manager and
// the state of their agent
type SSMAgentEnumerator struct {
	clients *awslib.Clients
}

// NewSSMAgents binds an SSMAgentEnumerator to c
func NewSSMAgents(c *awslib.Clients) awslib.Enumerator {
	return &SSMAgentEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *SSMAgentEnumerator) Name() string { return "ssm-agents" }

// Label implements Enumerator interface
func (e *SSMAgentEnumerator) Label() string { return "SSM Agents" }

// Headers implements Enumerator interface
func (e *SSMAgentEnumerator) Headers() []string {
	return []string{"Instance ID", "Computer Name", "Region", "Ping Status", "Platform", "Agent Version"}
}

// List implements Enumerator interface
func (e *SSMAgentEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var rows []awslib.Row

	err := e.clients.SSM.DescribeInstanceInformationPagesWithContext(ctx, &ssm.DescribeInstanceInformationInput{},
		func(page *ssm.DescribeInstanceInformationOutput, lastPage bool) bool {
			for _, info := range page.InstanceInformationList {
				rows = append(rows, awslib.Row{
					awslib.StringValue(info.InstanceId),
					awslib.StringValue(info.ComputerName),
					region,
					awslib.StringValue(info.PingStatus),
					awslib.StringValue(info.PlatformName),
					awslib.StringValue(info.AgentVersion),
				})
			}
			return true
		})
	if err != nil {
		return awslib.Failed("DescribeInstanceInformation", err)
	}

	return awslib.Found(rows, "No managed instances found")
}
