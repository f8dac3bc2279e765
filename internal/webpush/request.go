package webpush

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// MaxTTL is the longest TTL accepted: four weeks, the retention limit of
// the major push services.
const MaxTTL = 28 * 24 * time.Hour

// Urgency is the RFC 8030 section 5.3 message urgency.
type Urgency string

const (
	UrgencyVeryLow Urgency = "very-low"
	UrgencyLow     Urgency = "low"
	UrgencyNormal  Urgency = "normal"
	UrgencyHigh    Urgency = "high"
)

func (u Urgency) valid() bool {
	switch u {
	case UrgencyVeryLow, UrgencyLow, UrgencyNormal, UrgencyHigh:
		return true
	}
	return false
}

// Options are the per-message settings for a push request.
type Options struct {
	TTL     time.Duration // rounded down to seconds, in [0, MaxTTL]
	Urgency Urgency       // optional
	Topic   string        // optional, collapses pending messages

	VAPIDKeys       VAPIDKeys
	Subscriber      string        // mailto: or https: contact, VAPID sub claim
	VAPIDExpiration time.Duration // unset (zero) means DefaultVAPIDExpiration

	RecordSize uint32 // zero means DefaultRecordSize
	Padding    int

	// Encryptor overrides the default encryptor, for deterministic tests.
	Encryptor *Encryptor
	// Signer overrides the default VAPID signer.
	Signer *Signer
}

// BuildHeaders returns the headers that accompany an encrypted body:
// Content-Encoding, Content-Type, TTL, optional Urgency and Topic, and the
// VAPID Authorization for the endpoint's origin.
func BuildHeaders(sub *Subscription, opts Options) (http.Header, error) {
	if opts.TTL < 0 || opts.TTL > MaxTTL {
		return nil, fmt.Errorf("%w: %s not in [0, %s]", ErrInvalidTTL, opts.TTL, MaxTTL)
	}
	if opts.Urgency != "" && !opts.Urgency.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUrgency, opts.Urgency)
	}
	if err := validateTopic(opts.Topic); err != nil {
		return nil, err
	}

	aud, err := Audience(sub.Endpoint)
	if err != nil {
		return nil, err
	}
	signer := Signer{}
	if opts.Signer != nil {
		signer = *opts.Signer
	}
	expiration := opts.VAPIDExpiration
	if expiration == 0 {
		expiration = DefaultVAPIDExpiration
	}
	token, err := signer.Token(aud, opts.Subscriber, opts.VAPIDKeys.PublicKey, opts.VAPIDKeys.PrivateKey, expiration)
	if err != nil {
		return nil, err
	}

	h := make(http.Header)
	h.Set("Content-Encoding", ContentEncoding)
	h.Set("Content-Type", "application/octet-stream")
	h.Set("TTL", strconv.FormatInt(int64(opts.TTL/time.Second), 10))
	if opts.Urgency != "" {
		h.Set("Urgency", string(opts.Urgency))
	}
	if opts.Topic != "" {
		h.Set("Topic", opts.Topic)
	}
	h.Set("Authorization", token.Authorization())
	return h, nil
}

// NewRequest encrypts payload for sub and returns the POST request a
// delivery client should send. The request is not sent.
func NewRequest(ctx context.Context, sub *Subscription, payload []byte, opts Options) (*http.Request, error) {
	header, err := BuildHeaders(sub, opts)
	if err != nil {
		return nil, err
	}

	enc := Encryptor{}
	if opts.Encryptor != nil {
		enc = *opts.Encryptor
	}
	body, err := enc.EncryptWithOptions(sub.Keys.P256dh, sub.Keys.Auth, payload, CipherOptions{
		RecordSize: opts.RecordSize,
		Padding:    opts.Padding,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	req.Header = header
	return req, nil
}

func validateTopic(topic string) error {
	if len(topic) > 32 {
		return fmt.Errorf("%w: %d characters, max 32", ErrInvalidTopic, len(topic))
	}
	for _, c := range topic {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return fmt.Errorf("%w: character %q", ErrInvalidTopic, c)
		}
	}
	return nil
}

// Outcome is what a delivery client should do after a push service reply.
type Outcome int

const (
	// Delivered: the push service accepted the message.
	Delivered Outcome = iota
	// Gone: the subscription expired or was revoked and must be deleted.
	Gone
	// Retry: a transient failure, eligible for the caller's backoff.
	Retry
	// Rejected: the request itself is wrong; resending it will not help.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Gone:
		return "gone"
	case Retry:
		return "retry"
	case Rejected:
		return "rejected"
	}
	return "Outcome(" + strconv.Itoa(int(o)) + ")"
}

// ClassifyResponse maps a push service status code to an Outcome.
func ClassifyResponse(statusCode int) Outcome {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return Delivered
	case statusCode == http.StatusNotFound || statusCode == http.StatusGone:
		return Gone
	case statusCode == http.StatusTooManyRequests || statusCode >= 500 || statusCode == 0:
		return Retry
	}
	return Rejected
}
