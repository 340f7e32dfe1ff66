package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"orb-scanner/internal/interfaces"
)

// PrintNotifier writes alerts to a writer, stdout by default.
type PrintNotifier struct {
	w io.Writer
}

var _ interfaces.Notifier = (*PrintNotifier)(nil)

func NewPrint() *PrintNotifier {
	return &PrintNotifier{w: os.Stdout}
}

func NewPrintTo(w io.Writer) *PrintNotifier {
	return &PrintNotifier{w: w}
}

func (p *PrintNotifier) Send(ctx context.Context, title, message string) error {
	_, err := fmt.Fprintf(p.w, "[%s] %s\n", title, message)
	return err
}
