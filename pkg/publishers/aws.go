package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves the region and, when pinned, static credentials for an AWS sink.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil && creds.AccessKeyID != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// outcomeAttributes are the string attributes both AWS sinks attach to a message.
func outcomeAttributes(evt Event) map[string]string {
	status := "ok"
	if !evt.Outcome.OK {
		status = "failed"
	}
	return map[string]string{
		"request_id": evt.RequestID,
		"outcome":    status,
	}
}

// fifoTarget reports whether a queue URL or topic ARN names a FIFO resource. FIFO targets
// are grouped by request id so outcomes for one request stay ordered.
func fifoTarget(target string) bool {
	return strings.HasSuffix(target, ".fifo")
}

func encodeEvent(evt Event) (string, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(payload), nil
}
