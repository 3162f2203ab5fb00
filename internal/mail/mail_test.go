package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

func TestSMTPSenderBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth

	s := &smtpSender{
		cfg: SMTPConfig{Host: "mail.local", Port: 1025, From: "shop@gamerx.dev"},
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
			return nil
		},
	}

	if err := s.Send(context.Background(), "bob@example.com", "Verify", "token: abc"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAddr != "mail.local:1025" || gotFrom != "shop@gamerx.dev" || len(gotTo) != 1 || gotTo[0] != "bob@example.com" {
		t.Fatalf("addr=%s from=%s to=%v", gotAddr, gotFrom, gotTo)
	}
	if gotAuth != nil {
		t.Fatal("expected no auth without username")
	}
	msg := string(gotMsg)
	for _, want := range []string{"To: bob@example.com\r\n", "Subject: Verify\r\n", "\r\n\r\ntoken: abc"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestSMTPSenderWrapsFailure(t *testing.T) {
	boom := errors.New("connection refused")
	s := &smtpSender{
		cfg:  SMTPConfig{Host: "mail.local", Port: 25, Username: "u", Password: "p"},
		send: func(string, smtp.Auth, string, []string, []byte) error { return boom },
	}
	if err := s.Send(context.Background(), "x@example.com", "s", "b"); !errors.Is(err, boom) {
		t.Fatalf("Send = %v, want wrapped %v", err, boom)
	}
}
