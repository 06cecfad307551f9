package enumerators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	awslib "cloudpwn/internal/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

// binarySecret is shown for secrets without a string payload
const binarySecret = "Binary or unavailable secret"

// SecretRecord is the JSON form of one secret
type SecretRecord struct {
	Name  string      `json:"Secret Name"`
	Value interface{} `json:"Value"`
}

// SecretsEnumerator lists Secrets Manager entries together with their values
type SecretsEnumerator struct {
	clients *awslib.Clients
}

// NewSecrets binds a SecretsEnumerator to c
func NewSecrets(c *awslib.Clients) awslib.Enumerator {
	return &SecretsEnumerator{clients: c}
}

// Name implements Enumerator interface
func (e *SecretsEnumerator) Name() string { return "secrets" }

// Label implements Enumerator interface
func (e *SecretsEnumerator) Label() string { return "Secrets Manager" }

// Headers implements Enumerator interface
func (e *SecretsEnumerator) Headers() []string {
	return []string{"Secret Name", "Region", "Value"}
}

// List implements Enumerator interface
func (e *SecretsEnumerator) List(ctx context.Context) awslib.Result {
	region := e.clients.Scope.Region
	var names []string

	err := e.clients.SecretsManager.ListSecretsPagesWithContext(ctx, &secretsmanager.ListSecretsInput{},
		func(page *secretsmanager.ListSecretsOutput, lastPage bool) bool {
			for _, entry := range page.SecretList {
				names = append(names, aws.StringValue(entry.Name))
			}
			return true
		})
	if err != nil {
		return awslib.Failed("ListSecrets", err)
	}

	rows := make([]awslib.Row, 0, len(names))
	records := make([]interface{}, 0, len(names))
	for _, name := range names {
		text, value := e.value(ctx, name)
		rows = append(rows, awslib.Row{name, region, text})
		records = append(records, SecretRecord{Name: name, Value: value})
	}

	result := awslib.Found(rows, "No secrets found in AWS Secrets Manager")
	if result.HasRows() {
		result.Records = records
	}
	return result
}

// value fetches a secret payload and returns it as stored together with its
// decoded form. JSON payloads are decoded with numbers kept exact, anything
// else is kept as text. Retrieval faults become a descriptive string.
func (e *SecretsEnumerator) value(ctx context.Context, name string) (string, interface{}) {
	out, err := e.clients.SecretsManager.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		msg := fmt.Sprintf("Error retrieving secret '%s': %s", name, awslib.Classify("GetSecretValue", err).Error())
		var aerr awserr.Error
		if errors.As(err, &aerr) {
			switch aerr.Code() {
			case secretsmanager.ErrCodeResourceNotFoundException:
				msg = fmt.Sprintf("Secret '%s' not found.", name)
			case secretsmanager.ErrCodeDecryptionFailure:
				msg = fmt.Sprintf("Failed to decrypt secret '%s': %s", name, aerr.Message())
			}
		}
		return msg, msg
	}

	if out.SecretString == nil || *out.SecretString == "" {
		return binarySecret, binarySecret
	}

	text := *out.SecretString
	if parsed, ok := decodeJSON(text); ok {
		return text, parsed
	}
	return text, text
}

// decodeJSON decodes a single JSON document. Trailing data is not JSON.
func decodeJSON(text string) (interface{}, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var parsed interface{}
	if err := dec.Decode(&parsed); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return parsed, true
}
