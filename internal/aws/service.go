package aws

import (
	"strings"
)

// Service identifies a group of enumeration routines that the user selects by name
type Service int

const (
	ServiceUnknown Service = iota
	ServiceEC2
	ServiceRDS
	ServiceSecrets
	ServiceS3
	ServiceEKS
	ServiceRoute53
	ServiceIAM
)

// GlobalRegion is the region label used for reports of global services
const GlobalRegion = "global"

var serviceNames = map[Service]string{
	ServiceEC2:     "ec2",
	ServiceRDS:     "rds",
	ServiceSecrets: "secrets",
	ServiceS3:      "s3",
	ServiceEKS:     "eks",
	ServiceRoute53: "route53",
	ServiceIAM:     "iam",
}

// serviceAliases holds extra accepted spellings, all lower case
var serviceAliases = map[string]Service{
	"secretsmanager":  ServiceSecrets,
	"secrets-manager": ServiceSecrets,
	"route-53":        ServiceRoute53,
}

// String returns the canonical command-line name of the service
func (s Service) String() string {
	if name, ok := serviceNames[s]; ok {
		return name
	}
	return "unknown"
}

// Global reports whether the service is account-wide rather than regional
func (s Service) Global() bool {
	switch s {
	case ServiceS3, ServiceRoute53, ServiceIAM:
		return true
	default:
		return false
	}
}

// ParseService resolves a case-insensitive service name or alias
func ParseService(name string) (Service, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range serviceNames {
		if n == name {
			return s, true
		}
	}
	if s, ok := serviceAliases[name]; ok {
		return s, true
	}
	return ServiceUnknown, false
}

// AllServices returns every known service in declaration order
func AllServices() []Service {
	return []Service{
		ServiceEC2,
		ServiceRDS,
		ServiceSecrets,
		ServiceS3,
		ServiceEKS,
		ServiceRoute53,
		ServiceIAM,
	}
}

// ServiceNames returns the canonical names of services
func ServiceNames(services []Service) []string {
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.String())
	}
	return names
}
