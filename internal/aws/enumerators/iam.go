package enumerators

import (
	"context"
	"strings"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/sts"
)

// IAMIdentityEnumerator shows who the credentials in use belong to
type IAMIdentityEnumerator struct {
	clients *awslib.Clients
}

// NewIAMIdentity binds an IAMIdentityEnumerator to c
func NewIAMIdentity(c *awslib.Clients) awslib.Enumerator {
	return &IAMIdentityEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *IAMIdentityEnumerator) Name() string { return "iam-identity" }

// Label implements Enumerator interface
func (e *IAMIdentityEnumerator) Label() string { return "Caller Identity" }

// Headers implements Enumerator interface
func (e *IAMIdentityEnumerator) Headers() []string { return []string{"User ID", "Account", "ARN"} }

// List implements Enumerator interface
func (e *IAMIdentityEnumerator) List(ctx context.Context) awslib.Result {
	out, err := e.clients.STS.GetCallerIdentityWithContext(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return awslib.Failed("GetCallerIdentity", err)
	}
	if out.Arn == nil {
		return awslib.NotFound("No caller identity found")
	}
	return awslib.Found([]awslib.Row{{
		awslib.StringValue(out.UserId),
		awslib.StringValue(out.Account),
		awslib.StringValue(out.Arn),
	}}, "No caller identity found")
}

// IAMUserEnumerator lists IAM users and their attached managed policies
type IAMUserEnumerator struct {
	clients *awslib.Clients
}

// NewIAMUsers binds an IAMUserEnumerator to c
func NewIAMUsers(c *awslib.Clients) awslib.Enumerator {
	return &IAMUserEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *IAMUserEnumerator) Name() string { return "iam-users" }

// Label implements Enumerator interface
func (e *IAMUserEnumerator) Label() string { return "IAM Users" }

// Headers implements Enumerator interface
func (e *IAMUserEnumerator) Headers() []string {
	return []string{"Username", "ARN", "Attached Policies"}
}

// List implements Enumerator interface
func (e *IAMUserEnumerator) List(ctx context.Context) awslib.Result {
	var users []*iam.User
	err := e.clients.IAM.ListUsersPagesWithContext(ctx, &iam.ListUsersInput{},
		func(page *iam.ListUsersOutput, lastPage bool) bool {
			users = append(users, page.Users...)
			return true
		})
	if err != nil {
		return awslib.Failed("ListUsers", err)
	}

	rows := make([]awslib.Row, 0, len(users))
	for _, user := range users {
		rows = append(rows, awslib.Row{
			awslib.StringValue(user.UserName),
			awslib.StringValue(user.Arn),
			e.attachedPolicies(ctx, user.UserName),
		})
	}

	return awslib.Found(rows, "No users found in the account")
}

func (e *IAMUserEnumerator) attachedPolicies(ctx context.Context, userName *string) string {
	var names []string
	err := e.clients.IAM.ListAttachedUserPoliciesPagesWithContext(ctx, &iam.ListAttachedUserPoliciesInput{UserName: userName},
		func(page *iam.ListAttachedUserPoliciesOutput, lastPage bool) bool {
			for _, policy := range page.AttachedPolicies {
				names = append(names, aws.StringValue(policy.PolicyName))
			}
			return true
		})
	if err != nil {
		return awslib.Placeholder
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

// IAMGroupEnumerator lists IAM groups
type IAMGroupEnumerator struct {
	clients *awslib.Clients
}

// NewIAMGroups binds an IAMGroupEnumerator to c
func NewIAMGroups(c *awslib.Clients) awslib.Enumerator {
	return &IAMGroupEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *IAMGroupEnumerator) Name() string { return "iam-groups" }

// Label implements Enumerator interface
func (e *IAMGroupEnumerator) Label() string { return "IAM Groups" }

// Headers implements Enumerator interface
func (e *IAMGroupEnumerator) Headers() []string { return []string{"Group Name", "ARN"} }

// List implements Enumerator interface
func (e *IAMGroupEnumerator) List(ctx context.Context) awslib.Result {
	var rows []awslib.Row
	err := e.clients.IAM.ListGroupsPagesWithContext(ctx, &iam.ListGroupsInput{},
		func(page *iam.ListGroupsOutput, lastPage bool) bool {
			for _, group := range page.Groups {
				rows = append(rows, awslib.Row{awslib.StringValue(group.GroupName), awslib.StringValue(group.Arn)})
			}
			return true
		})
	if err != nil {
		return awslib.Failed("ListGroups", err)
	}
	return awslib.Found(rows, "No groups found in the account")
}

// IAMRoleEnumerator lists IAM roles
type IAMRoleEnumerator struct {
	clients *awslib.Clients
}

// NewIAMRoles binds an IAMRoleEnumerator to c
func NewIAMRoles(c *awslib.Clients) awslib.Enumerator {
	return &IAMRoleEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *IAMRoleEnumerator) Name() string { return "iam-roles" }

// Label implements Enumerator interface
func (e *IAMRoleEnumerator) Label() string { return "IAM Roles" }

// Headers implements Enumerator interface
func (e *IAMRoleEnumerator) Headers() []string { return []string{"Role Name", "ARN"} }

// List implements Enumerator interface
func (e *IAMRoleEnumerator) List(ctx context.Context) awslib.Result {
	var rows []awslib.Row
	err := e.clients.IAM.ListRolesPagesWithContext(ctx, &iam.ListRolesInput{},
		func(page *iam.ListRolesOutput, lastPage bool) bool {
			for _, role := range page.Roles {
				rows = append(rows, awslib.Row{awslib.StringValue(role.RoleName), awslib.StringValue(role.Arn)})
			}
			return true
		})
	if err != nil {
		return awslib.Failed("ListRoles", err)
	}
	return awslib.Found(rows, "No roles found in the account")
}

// IAMPolicyEnumerator lists customer managed policies
type IAMPolicyEnumerator struct {
	clients *awslib.Clients
}

// NewIAMPolicies binds an IAMPolicyEnumerator to c
func NewIAMPolicies(c *awslib.Clients) awslib.Enumerator {
	return &IAMPolicyEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *IAMPolicyEnumerator) Name() string { return "iam-policies" }

// Label implements Enumerator interface
func (e *IAMPolicyEnumerator) Label() string { return "IAM Policies" }

// Headers implements Enumerator interface
func (e *IAMPolicyEnumerator) Headers() []string { return []string{"Policy Name", "ARN"} }

// List implements Enumerator interface
func (e *IAMPolicyEnumerator) List(ctx context.Context) awslib.Result {
	var rows []awslib.Row
	input := &iam.ListPoliciesInput{Scope: aws.String(iam.PolicyScopeTypeLocal)}
	err := e.clients.IAM.ListPoliciesPagesWithContext(ctx, input,
		func(page *iam.ListPoliciesOutput, lastPage bool) bool {
			for _, policy := range page.Policies {
				rows = append(rows, awslib.Row{awslib.StringValue(policy.PolicyName), awslib.StringValue(policy.Arn)})
			}
			return true
		})
	if err != nil {
		return awslib.Failed("ListPolicies", err)
	}
	return awslib.Found(rows, "No policies found in the account")
}
