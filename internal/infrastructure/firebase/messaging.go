package firebaseinfra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/mubs-locator/internal/domain"
)

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
}

// Pusher delivers push notifications through Firebase Cloud Messaging.
type Pusher struct {
	client    messagingClient
	channelID string
}

func NewPusher(ctx context.Context, app *firebase.App, androidChannelID string) (*Pusher, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging client: %w", err)
	}
	return &Pusher{client: client, channelID: androidChannelID}, nil
}

// Send returns the FCM message ID.
func (p *Pusher) Send(ctx context.Context, msg *domain.PushMessage) (string, error) {
	id, err := p.client.Send(ctx, p.build(msg))
	if err != nil {
		return "", fmt.Errorf("fcm send: %w", err)
	}
	return id, nil
}

func (p *Pusher) SubscribeToTopic(ctx context.Context, tokens []string, topic string) error {
	resp, err := p.client.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return fmt.Errorf("fcm subscribe to %s: %w", topic, err)
	}
	if resp != nil && resp.FailureCount > 0 && len(resp.Errors) > 0 {
		return fmt.Errorf("fcm subscribe to %s: %s", topic, resp.Errors[0].Reason)
	}
	return nil
}

func (p *Pusher) build(msg *domain.PushMessage) *messaging.Message {
	m := &messaging.Message{
		Topic: msg.Topic,
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:   p.channelID,
				ClickAction: msg.ClickAction,
			},
		},
	}
	if msg.APNSAlert {
		m.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: msg.Title,
						Body:  msg.Body,
					},
					Sound:            "default",
					ContentAvailable: true,
				},
			},
		}
	}
	return m
}
