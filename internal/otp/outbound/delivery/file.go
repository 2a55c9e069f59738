package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shandysiswandi/otpgate/internal/shared/account"
)

// File appends codes to a local file. It is meant for development and
// demo setups without a real delivery provider.
type File struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

func NewFile(path string, now func() time.Time) *File {
	if now == nil {
		now = time.Now
	}
	return &File{path: path, now: now}
}

func (f *File) Send(ctx context.Context, to account.Contact, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line := fmt.Sprintf("%s - User: %s, OTP Code: %s\n", f.now().Format(time.RFC3339), to.Username, code)

	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	_, werr := fh.WriteString(line)
	return errors.Join(werr, fh.Close())
}
