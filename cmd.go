package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mpizenberg/go-push-crypto/internal/webpush"
)

// maxPushBody is the body size every push service must accept.
const maxPushBody = 4096

func (a *app) generateVAPIDCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "generate-vapid",
		Short: "Generate a VAPID key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, priv, err := webpush.GenerateVAPIDKeys()
			if err != nil {
				return fmt.Errorf("failed to generate VAPID keys: %w", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(webpush.VAPIDKeys{PublicKey: pub, PrivateKey: priv})
			}
			fmt.Fprintf(out, "%s=%s\n", envVAPIDPublicKey, pub)
			fmt.Fprintf(out, "%s=%s\n", envVAPIDPrivateKey, priv)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the key pair as JSON")
	return cmd
}

func (a *app) vapidHeaderCmd() *cobra.Command {
	var (
		endpoint   string
		expiration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "vapid-header",
		Short: "Print the VAPID Authorization header for a push endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.vapidConfig()
			if err != nil {
				return err
			}
			aud, err := webpush.Audience(endpoint)
			if err != nil {
				return err
			}
			tok, err := webpush.Signer{}.Token(aud, cfg.VAPIDContact, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, expiration)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"audience": aud,
				"expires":  humanize.Time(tok.ExpiresAt),
			}).Info("signed VAPID token")
			fmt.Fprintln(cmd.OutOrStdout(), tok.Authorization())
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "push subscription endpoint URL")
	cmd.Flags().DurationVar(&expiration, "expiration", webpush.DefaultVAPIDExpiration, "token lifetime, less than 24h")
	_ = cmd.MarkFlagRequired("endpoint")
	return cmd
}

type encryptFlags struct {
	subscription string
	payloadFile  string
	out          string
	notification Notification

	ttl        time.Duration
	urgency    string
	topic      string
	recordSize uint32
	padding    int
}

func (f *encryptFlags) payload() ([]byte, error) {
	if f.payloadFile != "" {
		data, err := os.ReadFile(f.payloadFile)
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		return data, nil
	}
	return pushPayload(f.notification)
}

func (a *app) encryptCmd() *cobra.Command {
	var f encryptFlags
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a notification for one subscription",
		Long: `encrypt reads a PushSubscription JSON document, encrypts either a
Declarative Web Push notification built from the flags or the raw bytes of
--payload-file, and prints the request a delivery client should send.

The body is written to --out, or printed base64url-encoded after the
headers when --out is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEncrypt(cmd, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.subscription, "subscription", "", "PushSubscription JSON file")
	fl.StringVar(&f.payloadFile, "payload-file", "", "send the raw contents of this file")
	fl.StringVar(&f.out, "out", "", "write the encrypted body to this file")
	fl.StringVar(&f.notification.Title, "title", "", "notification title")
	fl.StringVar(&f.notification.Body, "body", "", "notification body")
	fl.StringVar(&f.notification.Icon, "icon", "", "notification icon URL")
	fl.StringVar(&f.notification.Badge, "badge", "", "notification badge URL")
	fl.StringVar(&f.notification.Tag, "tag", "", "notification tag")
	fl.StringVar(&f.notification.URL, "url", "", "URL opened on click")
	fl.DurationVar(&f.ttl, "ttl", 24*time.Hour, "how long the push service keeps the message")
	fl.StringVar(&f.urgency, "urgency", "", "very-low, low, normal or high")
	fl.StringVar(&f.topic, "topic", "", "replace a pending message with the same topic")
	fl.Uint32Var(&f.recordSize, "record-size", webpush.DefaultRecordSize, "aes128gcm record size")
	fl.IntVar(&f.padding, "padding", 0, "zero octets appended to hide the payload length")
	_ = cmd.MarkFlagRequired("subscription")
	cmd.MarkFlagsMutuallyExclusive("payload-file", "title")
	return cmd
}

func (a *app) runEncrypt(cmd *cobra.Command, f *encryptFlags) error {
	cfg, err := a.vapidConfig()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(f.subscription)
	if err != nil {
		return fmt.Errorf("read subscription: %w", err)
	}
	sub, err := webpush.ParseSubscription(data)
	if err != nil {
		return err
	}
	payload, err := f.payload()
	if err != nil {
		return err
	}

	req, err := webpush.NewRequest(cmd.Context(), sub, payload, webpush.Options{
		TTL:     f.ttl,
		Urgency: webpush.Urgency(f.urgency),
		Topic:   f.topic,
		VAPIDKeys: webpush.VAPIDKeys{
			PublicKey:  cfg.VAPIDPublicKey,
			PrivateKey: cfg.VAPIDPrivateKey,
		},
		Subscriber: cfg.VAPIDContact,
		RecordSize: f.recordSize,
		Padding:    f.padding,
	})
	if err != nil {
		return err
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("read encrypted body: %w", err)
	}

	rs := int(f.recordSize)
	if rs == 0 {
		rs = int(webpush.DefaultRecordSize)
	}
	entry := a.log.WithFields(logrus.Fields{
		"endpoint": sub.Endpoint,
		"payload":  humanize.Bytes(uint64(len(payload))),
		"body":     humanize.Bytes(uint64(len(body))),
		"records":  (len(body) - webpush.HeaderSize + rs - 1) / rs,
	})
	if len(body) > maxPushBody {
		entry.Warnf("body is larger than %s; push services may reject it", humanize.Bytes(maxPushBody))
	} else {
		entry.Info("encrypted message")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", req.Method, req.URL)
	for _, k := range slices.Sorted(maps.Keys(req.Header)) {
		fmt.Fprintf(out, "%s: %s\n", k, req.Header.Get(k))
	}
	if f.out == "" {
		fmt.Fprintf(out, "\n%s\n", webpush.EncodeBase64URL(body))
		return nil
	}
	if err := os.WriteFile(f.out, body, 0o644); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	a.log.WithField("file", f.out).Debug("wrote encrypted body")
	return nil
}
