package mail

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeSMTPServer accepts one session and records the DATA payload.
type fakeSMTPServer struct {
	ln   net.Listener
	mu   sync.Mutex
	data string
	rcpt []string
	hang bool
}

func newFakeSMTPServer(t *testing.T, hang bool) *fakeSMTPServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &fakeSMTPServer{ln: ln, hang: hang}
	t.Cleanup(func() { _ = ln.Close() })

	go srv.serve()
	return srv
}

func (s *fakeSMTPServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTPServer) serve() {
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	if s.hang {
		time.Sleep(2 * time.Second)
		return
	}

	r := bufio.NewReader(conn)
	write := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }
	write("220 fake ESMTP")

	inData := false
	var body strings.Builder
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		if inData {
			if line == ".\r\n" {
				inData = false
				s.mu.Lock()
				s.data = body.String()
				s.mu.Unlock()
				write("250 OK")
				continue
			}
			body.WriteString(line)
			continue
		}

		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			write("250 fake")
		case strings.HasPrefix(cmd, "MAIL FROM"):
			write("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO"):
			s.mu.Lock()
			s.rcpt = append(s.rcpt, strings.TrimSpace(line[len("RCPT TO:"):]))
			s.mu.Unlock()
			write("250 OK")
		case cmd == "DATA":
			inData = true
			write("354 go ahead")
		case cmd == "QUIT":
			write("221 bye")
			return
		default:
			write("250 OK")
		}
	}
}

func TestSMTP_Send(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := newFakeSMTPServer(t, false)
	m, err := NewSMTP(SMTPConfig{Host: "127.0.0.1", Port: srv.port(), From: "otp@otpgate.local"})
	if err != nil {
		t.Fatalf("NewSMTP: %v", err)
	}

	// Act
	err = m.Send(context.Background(), Message{
		To:       []string{"alice@example.com"},
		Subject:  "Your OTP Code",
		TextBody: "Your OTP code is: 123456",
	})

	// Assert
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if !strings.Contains(srv.data, "Subject: Your OTP Code") || !strings.Contains(srv.data, "Your OTP code is: 123456") {
		t.Fatalf("unexpected data: %q", srv.data)
	}
	if len(srv.rcpt) != 1 || !strings.Contains(srv.rcpt[0], "alice@example.com") {
		t.Fatalf("unexpected rcpt: %v", srv.rcpt)
	}
}

func TestSMTP_SendTimeout(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := newFakeSMTPServer(t, true)
	m, _ := NewSMTP(SMTPConfig{Host: "127.0.0.1", Port: srv.port(), From: "otp@otpgate.local"})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Act
	start := time.Now()
	err := m.Send(ctx, Message{To: []string{"a@b.c"}, Subject: "s", TextBody: "b"})

	// Assert
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("send did not honour the deadline")
	}
}

func TestSMTP_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewSMTP(SMTPConfig{}); !errors.Is(err, ErrSMTPHostPortRequired) {
		t.Fatalf("err = %v", err)
	}

	m, _ := NewSMTP(SMTPConfig{Host: "127.0.0.1", Port: 25})
	if err := m.Send(context.Background(), Message{}); !errors.Is(err, ErrSMTPNoRecipients) {
		t.Fatalf("err = %v, want ErrSMTPNoRecipients", err)
	}
	if err := m.Send(context.Background(), Message{To: []string{"a@b.c"}}); !errors.Is(err, ErrSMTPNoSender) {
		t.Fatalf("err = %v, want ErrSMTPNoSender", err)
	}
}
