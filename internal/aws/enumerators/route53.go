package enumerators

import (
	"context"
	"strings"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/service/route53"
)

func listHostedZones(ctx context.Context, c *awslib.Clients) ([]*route53.HostedZone, error) {
	var zones []*route53.HostedZone
	err := c.Route53.ListHostedZonesPagesWithContext(ctx, &route53.ListHostedZonesInput{},
		func(page *route53.ListHostedZonesOutput, lastPage bool) bool {
			zones = append(zones, page.HostedZones...)
			return true
		})
	return zones, err
}

// Route53ZoneEnumerator lists hosted zones
type Route53ZoneEnumerator struct {
	clients *awslib.Clients
}

// NewRoute53Zones binds a Route53ZoneEnumerator to c
func NewRoute53Zones(c *awslib.Clients) awslib.Enumerator {
	return &Route53ZoneEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *Route53ZoneEnumerator) Name() string { return "route53-zones" }

// Label implements Enumerator interface
func (e *Route53ZoneEnumerator) Label() string { return "Route 53 Hosted Zones" }

// Headers implements Enumerator interface
func (e *Route53ZoneEnumerator) Headers() []string {
	return []string{"Zone ID", "Zone Name", "Private Zone", "Record Count"}
}

// List implements Enumerator interface
func (e *Route53ZoneEnumerator) List(ctx context.Context) awslib.Result {
	zones, err := listHostedZones(ctx, e.clients)
	if err != nil {
		return awslib.Failed("ListHostedZones", err)
	}

	rows := make([]awslib.Row, 0, len(zones))
	for _, zone := range zones {
		private := awslib.Placeholder
		if zone.Config != nil {
			private = boolValue(zone.Config.PrivateZone)
		}
		rows = append(rows, awslib.Row{
			zoneID(zone.Id),
			awslib.StringValue(zone.Name),
			private,
			int64Value(zone.ResourceRecordSetCount),
		})
	}

	return awslib.Found(rows, "No hosted zones found in the account")
}

// Route53RecordEnumerator lists the record sets of every hosted zone
type Route53RecordEnumerator struct {
	clients *awslib.Clients
}

// NewRoute53Records binds a Route53RecordEnumerator to c
func NewRoute53Records(c *awslib.Clients) awslib.Enumerator {
	return &Route53RecordEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *Route53RecordEnumerator) Name() string { return "route53-records" }

// Label implements Enumerator interface
func (e *Route53RecordEnumerator) Label() string { return "Route 53 Records" }

// Headers implements Enumerator interface
func (e *Route53RecordEnumerator) Headers() []string {
	return []string{"Zone Name", "Record Name", "Record Type", "TTL"}
}

// List implements Enumerator interface
func (e *Route53RecordEnumerator) List(ctx context.Context) awslib.Result {
	zones, err := listHostedZones(ctx, e.clients)
	if err != nil {
		return awslib.Failed("ListHostedZones", err)
	}

	var rows []awslib.Row
	for _, zone := range zones {
		zoneName := awslib.StringValue(zone.Name)
		input := &route53.ListResourceRecordSetsInput{HostedZoneId: zone.Id}
		err := e.clients.Route53.ListResourceRecordSetsPagesWithContext(ctx, input,
			func(page *route53.ListResourceRecordSetsOutput, lastPage bool) bool {
				for _, record := range page.ResourceRecordSets {
					rows = append(rows, awslib.Row{
						zoneName,
						awslib.StringValue(record.Name),
						awslib.StringValue(record.Type),
						int64Value(record.TTL),
					})
				}
				return true
			})
		if err != nil {
			// one unreadable zone leaves a placeholder row rather than failing the rest
			rows = append(rows, awslib.Row{zoneName, awslib.Placeholder, awslib.Placeholder, awslib.Placeholder})
		}
	}

	return awslib.Found(rows, "No records found")
}

// zoneID strips the "/hostedzone/" prefix the API returns
func zoneID(id *string) string {
	if id == nil || *id == "" {
		return awslib.Placeholder
	}
	return strings.TrimPrefix(*id, "/hostedzone/")
}
