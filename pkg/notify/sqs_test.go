package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSNotifierSendSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	notifier := &sqsNotifier{
		id:       "queue-1",
		typ:      TypeSQS,
		queueURL: "https://sqs.eu-central-1.amazonaws.com/1/articles",
		client:   client,
		log:      noopLogger{},
	}

	evt := NewEvent("Article", "chairs", StatusPublished)
	if err := notifier.Notify(context.Background(), evt); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if client.input == nil {
		t.Fatal("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != notifier.queueURL {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["status"]
	if !ok || aws.ToString(attr.StringValue) != StatusPublished {
		t.Fatalf("status attribute missing or wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"article_title":"Article"`) {
		t.Fatalf("body missing title: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSNotifierSendError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	notifier := &sqsNotifier{
		id:       "queue-1",
		typ:      TypeSQS,
		queueURL: "https://q",
		client:   client,
		log:      noopLogger{},
	}

	if err := notifier.Notify(context.Background(), NewEvent("A", "t", StatusFailed)); err == nil {
		t.Fatal("expected error from Notify")
	}
}
