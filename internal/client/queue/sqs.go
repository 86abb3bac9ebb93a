package queue

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Publisher delivers serialized events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, eventType string, body []byte) error
}

// SQSPublisher publishes events to an SQS queue for audit/monitoring
// consumers.
type SQSPublisher struct {
	client   *sqs.Client
	queueURL string
}

var _ Publisher = (*SQSPublisher)(nil)

// NewSQSPublisher loads the default AWS config and targets queueURL.
func NewSQSPublisher(ctx context.Context, queueURL string) (*SQSPublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SQSPublisher{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Publish sends one event to the queue with the event type attached as
// a message attribute so consumers can filter without decoding.
func (p *SQSPublisher) Publish(ctx context.Context, eventType string, body []byte) error {
	_, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(eventType),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event to SQS: %w", err)
	}
	return nil
}
