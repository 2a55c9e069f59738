package strcase

import "testing"

func TestToLowerSnake(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":               "",
		"Code":           "code",
		"OperationID":    "operation_id",
		"TTLSeconds":     "ttl_seconds",
		"HTTPServer":     "http_server",
		"TelegramChatID": "telegram_chat_id",
		"user2FA":        "user2_fa",
	}

	for in, want := range tests {
		if got := ToLowerSnake(in); got != want {
			t.Fatalf("ToLowerSnake(%q) = %q, want %q", in, got, want)
		}
	}
}
