package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/mubs-locator/internal/config"
	"github.com/mubs-locator/internal/domain"
	"github.com/mubs-locator/internal/infrastructure/dynamo"
)

type publishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
}

var _ publishAPI = (*sns.Client)(nil)

// Pusher publishes push notifications through SNS mobile push. Topics map to
// SNS topic ARNs (topicPrefix + name); device tokens are platform endpoint ARNs.
type Pusher struct {
	client      publishAPI
	topicPrefix string
	channelID   string
}

func NewPusher(ctx context.Context, cfg *config.Config) (*Pusher, error) {
	awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		return nil, err
	}
	var opts []func(*sns.Options)
	if cfg.AWSEndpointURL != "" {
		opts = append(opts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &Pusher{
		client:      sns.NewFromConfig(awsCfg, opts...),
		topicPrefix: cfg.SNSTopicARNPrefix,
		channelID:   cfg.PushAndroidChannelID,
	}, nil
}

func (p *Pusher) Send(ctx context.Context, msg *domain.PushMessage) (string, error) {
	body, err := p.payload(msg)
	if err != nil {
		return "", err
	}
	in := &sns.PublishInput{
		Message:          aws.String(body),
		MessageStructure: aws.String("json"),
	}
	if msg.Topic != "" {
		in.TopicArn = aws.String(p.topicPrefix + msg.Topic)
	} else {
		in.TargetArn = aws.String(msg.Token)
	}
	out, err := p.client.Publish(ctx, in)
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

func (p *Pusher) SubscribeToTopic(ctx context.Context, tokens []string, topic string) error {
	for _, t := range tokens {
		_, err := p.client.Subscribe(ctx, &sns.SubscribeInput{
			TopicArn: aws.String(p.topicPrefix + topic),
			Protocol: aws.String("application"),
			Endpoint: aws.String(t),
		})
		if err != nil {
			return fmt.Errorf("sns subscribe to %s: %w", topic, err)
		}
	}
	return nil
}

type gcmPayload struct {
	Notification map[string]string `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Priority     string            `json:"priority"`
}

type apnsPayload struct {
	Aps  apsBody           `json:"aps"`
	Data map[string]string `json:"data,omitempty"`
}

type apsBody struct {
	Alert            map[string]string `json:"alert"`
	Sound            string            `json:"sound"`
	ContentAvailable int               `json:"content-available"`
}

// payload renders the per-platform message document SNS expects when
// MessageStructure is "json": every value is itself a JSON string.
func (p *Pusher) payload(msg *domain.PushMessage) (string, error) {
	notif := map[string]string{"title": msg.Title, "body": msg.Body}
	if p.channelID != "" {
		notif["android_channel_id"] = p.channelID
	}
	if msg.ClickAction != "" {
		notif["click_action"] = msg.ClickAction
	}
	gcm, err := json.Marshal(gcmPayload{Notification: notif, Data: msg.Data, Priority: "high"})
	if err != nil {
		return "", fmt.Errorf("encode gcm payload: %w", err)
	}
	doc := map[string]string{
		"default": msg.Body,
		"GCM":     string(gcm),
	}
	if msg.APNSAlert {
		apns, err := json.Marshal(apnsPayload{
			Aps: apsBody{
				Alert:            map[string]string{"title": msg.Title, "body": msg.Body},
				Sound:            "default",
				ContentAvailable: 1,
			},
			Data: msg.Data,
		})
		if err != nil {
			return "", fmt.Errorf("encode apns payload: %w", err)
		}
		doc["APNS"] = string(apns)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode sns message: %w", err)
	}
	return string(out), nil
}
