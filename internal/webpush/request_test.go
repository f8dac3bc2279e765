package webpush

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testOptions() Options {
	return Options{
		TTL:        time.Hour,
		VAPIDKeys:  VAPIDKeys{PublicKey: rfcSenderPublic, PrivateKey: rfcSenderPrivate},
		Subscriber: testSubject,
	}
}

func TestBuildHeaders(t *testing.T) {
	sub := newSubscriber(t).subscription("https://push.example.com/send/123")
	opts := testOptions()
	opts.TTL = 90*time.Second + 500*time.Millisecond
	opts.Urgency = UrgencyHigh
	opts.Topic = "inbox-42"

	h, err := BuildHeaders(sub, opts)
	if err != nil {
		t.Fatalf("BuildHeaders: %v", err)
	}
	want := map[string]string{
		"Content-Encoding": "aes128gcm",
		"Content-Type":     "application/octet-stream",
		"TTL":              "90",
		"Urgency":          "high",
		"Topic":            "inbox-42",
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}

	token, k := parseVapidHeader(t, h.Get("Authorization"))
	if k != rfcSenderPublic {
		t.Errorf("k = %s", k)
	}
	if aud := token.Claims.(jwt.MapClaims)["aud"]; aud != "https://push.example.com" {
		t.Errorf("aud = %v", aud)
	}
}

func TestBuildHeadersOptional(t *testing.T) {
	sub := newSubscriber(t).subscription("https://push.example.com/send/123")
	opts := testOptions()
	opts.TTL = 0

	h, err := BuildHeaders(sub, opts)
	if err != nil {
		t.Fatalf("BuildHeaders: %v", err)
	}
	if h.Get("TTL") != "0" {
		t.Errorf("TTL = %q, want 0", h.Get("TTL"))
	}
	for _, k := range []string{"Urgency", "Topic"} {
		if _, ok := h[k]; ok {
			t.Errorf("unexpected %s header", k)
		}
	}
}

func TestBuildHeadersErrors(t *testing.T) {
	sub := newSubscriber(t).subscription("https://push.example.com/send/123")

	tests := []struct {
		name   string
		sub    *Subscription
		modify func(*Options)
		want   error
	}{
		{"negative TTL", sub, func(o *Options) { o.TTL = -time.Second }, ErrInvalidTTL},
		{"TTL too long", sub, func(o *Options) { o.TTL = MaxTTL + time.Second }, ErrInvalidTTL},
		{"unknown urgency", sub, func(o *Options) { o.Urgency = "urgent" }, ErrInvalidUrgency},
		{"topic too long", sub, func(o *Options) { o.Topic = "abcdefghijklmnopqrstuvwxyz0123456" }, ErrInvalidTopic},
		{"topic with space", sub, func(o *Options) { o.Topic = "a b" }, ErrInvalidTopic},
		{"topic with slash", sub, func(o *Options) { o.Topic = "a/b" }, ErrInvalidTopic},
		{"bad endpoint", &Subscription{Endpoint: "nowhere", Keys: sub.Keys}, func(*Options) {}, ErrInvalidEndpoint},
		{"missing subscriber", sub, func(o *Options) { o.Subscriber = "" }, ErrInvalidSubject},
		{"missing keys", sub, func(o *Options) { o.VAPIDKeys = VAPIDKeys{} }, ErrInvalidPublicKey},
		{"expiration too large", sub, func(o *Options) { o.VAPIDExpiration = 25 * time.Hour }, ErrExpirationTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.modify(&opts)
			if _, err := BuildHeaders(tt.sub, opts); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	opts := testOptions()
	opts.Topic = "abcdefghijklmnopqrstuvwxyz012345"
	if _, err := BuildHeaders(sub, opts); err != nil {
		t.Errorf("32-character topic: %v", err)
	}
}

func TestBuildHeadersExpiration(t *testing.T) {
	s := newSubscriber(t)
	sub := s.subscription("https://push.example.com/send/123")
	now := time.Unix(1_800_000_000, 0)

	tests := []struct {
		name       string
		expiration time.Duration
		want       time.Time
	}{
		{"unset", 0, now.Add(DefaultVAPIDExpiration)},
		{"one hour", time.Hour, now.Add(time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.VAPIDExpiration = tt.expiration
			opts.Signer = &Signer{Now: func() time.Time { return now }}

			h, err := BuildHeaders(sub, opts)
			if err != nil {
				t.Fatalf("BuildHeaders: %v", err)
			}
			token, _ := parseVapidHeader(t, h.Get("Authorization"), jwt.WithoutClaimsValidation())
			exp, err := token.Claims.GetExpirationTime()
			if err != nil || exp == nil || !exp.Time.Equal(tt.want) {
				t.Errorf("exp = %v, %v; want %s", exp, err, tt.want)
			}
		})
	}
}

func TestNewRequest(t *testing.T) {
	s := newSubscriber(t)
	sub := s.subscription("https://push.example.com/send/123")
	opts := testOptions()
	opts.Padding = 64
	opts.Signer = &Signer{Now: func() time.Time { return time.Unix(1_800_000_000, 0) }}

	req, err := NewRequest(context.Background(), sub, []byte(rfcPlaintext), opts)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Method != http.MethodPost || req.URL.String() != sub.Endpoint {
		t.Errorf("request = %s %s", req.Method, req.URL)
	}
	if req.Header.Get("Content-Encoding") != ContentEncoding || req.Header.Get("TTL") != "3600" {
		t.Errorf("headers = %v", req.Header)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if want := HeaderSize + len(rfcPlaintext) + 64 + RecordOverhead; len(body) != want || req.ContentLength != int64(want) {
		t.Errorf("body is %d bytes (Content-Length %d), want %d", len(body), req.ContentLength, want)
	}
	plain, err := Decrypt(body, s.key, s.auth)
	if err != nil || string(plain) != rfcPlaintext {
		t.Errorf("Decrypt = %q, %v", plain, err)
	}
}

func TestNewRequestDeterministic(t *testing.T) {
	sub := rfcSubscriber(t).subscription("https://push.example.com/send/123")
	enc := rfcEncryptor(t)
	opts := testOptions()
	opts.Encryptor = &enc

	req, err := NewRequest(context.Background(), sub, []byte(rfcPlaintext), opts)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if EncodeBase64URL(body) != rfcBody {
		t.Errorf("body = %s", EncodeBase64URL(body))
	}
}

func TestNewRequestErrors(t *testing.T) {
	sub := newSubscriber(t).subscription("https://push.example.com/send/123")

	opts := testOptions()
	opts.RecordSize = 10
	if _, err := NewRequest(context.Background(), sub, nil, opts); !errors.Is(err, ErrInvalidRecordSize) {
		t.Errorf("record size error = %v", err)
	}

	bad := *sub
	bad.Keys.Auth = "AAAA"
	if _, err := NewRequest(context.Background(), &bad, nil, testOptions()); !errors.Is(err, ErrInvalidAuthSecret) {
		t.Errorf("auth error = %v", err)
	}
}

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		status int
		want   Outcome
	}{
		{http.StatusOK, Delivered},
		{http.StatusCreated, Delivered},
		{http.StatusAccepted, Delivered},
		{http.StatusBadRequest, Rejected},
		{http.StatusUnauthorized, Rejected},
		{http.StatusForbidden, Rejected},
		{http.StatusNotFound, Gone},
		{http.StatusGone, Gone},
		{http.StatusRequestEntityTooLarge, Rejected},
		{http.StatusTooManyRequests, Retry},
		{http.StatusInternalServerError, Retry},
		{http.StatusServiceUnavailable, Retry},
		{0, Retry},
	}
	for _, tt := range tests {
		if got := ClassifyResponse(tt.status); got != tt.want {
			t.Errorf("ClassifyResponse(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{
		Delivered:  "delivered",
		Gone:       "gone",
		Retry:      "retry",
		Rejected:   "rejected",
		Outcome(9): "Outcome(9)",
	} {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(o), got, want)
		}
	}
}
