package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/tkoide/shutsugan/core"
)

func TestConsoleService_SendMessagesSync(t *testing.T) {
	SentMessages = nil
	svc := consoleService{
		defaultFromEmail: mail.Address{Address: "noreply@localhost"},
		subjPrefix:       "[Shutsugan] ",
		disableOutput:    true,
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: "awe@test.jp"}},
		Subject: "Upcoming application deadlines",
		BodyStr: "hello",
	}
	svc.SendMessagesSync(msg)

	// delivery must have completed by the time the call returns; a CLI
	// process exits right after this
	if len(SentMessages) != 1 {
		t.Fatalf("SendMessagesSync() recorded %d messages, want 1", len(SentMessages))
	}
	if SentMessages[0].TextContent != "hello" {
		t.Errorf("TextContent = %q, want hello", SentMessages[0].TextContent)
	}
}

func TestConsoleService_SendMessagesSync_skipsEmpty(t *testing.T) {
	SentMessages = nil
	svc := consoleService{disableOutput: true}

	svc.SendMessagesSync(
		&core.EmailMessage{Subject: "no recipients", BodyStr: "hello"},
		&core.EmailMessage{To: []mail.Address{{Address: "awe@test.jp"}}, Subject: "no content"},
	)

	if len(SentMessages) != 0 {
		t.Errorf("SendMessagesSync() recorded %d messages, want 0", len(SentMessages))
	}
}
