package metrics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// SQSAPI is the subset of the SQS client used for publishing.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends each event as one SQS message.
type SQSPublisher struct {
	client   SQSAPI
	queueURL string
}

func NewSQSPublisher(client SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{client: client, queueURL: queueURL}
}

func (p *SQSPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics event: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"Event": {
				StringValue: aws.String(event.Event),
				DataType:    aws.String("String"),
			},
			"Category": {
				StringValue: aws.String(event.Category),
				DataType:    aws.String("String"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send metrics event to SQS: %w", err)
	}
	return nil
}

// NATSConn is the subset of *nats.Conn used for publishing.
type NATSConn interface {
	PublishMsg(m *nats.Msg) error
}

// NATSPublisher publishes events on a subject.
type NATSPublisher struct {
	conn    NATSConn
	subject string
}

func NewNATSPublisher(conn NATSConn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics event: %w", err)
	}
	msg := nats.NewMsg(p.subject)
	msg.Data = body
	msg.Header.Set("Event", event.Event)
	msg.Header.Set(nats.MsgIdHdr, event.MessageID)
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish metrics event to NATS: %w", err)
	}
	return nil
}

// ConnectNATS dials url with the service's client name.
func ConnectNATS(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("wallet-rpc-metrics"),
		nats.MaxReconnects(-1),
	)
}

// LogPublisher writes events to the structured log. Used in local runs.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Info("Metrics event",
		zap.String("event", event.Event),
		zap.String("category", event.Category),
		zap.String("message_id", event.MessageID),
		zap.Any("properties", event.Properties))
	return nil
}
