package extract

import (
	"context"
	"log/slog"
	"time"

	"pocketledger/internal/core"
)

// Result carries exactly one of a parsed value or a failure reason.
type Result[T any] struct {
	Value T
	Err   error
}

// Pipeline runs the full text-to-record conversion: prompt construction,
// the remote call and the typed decode. Each Parse call completes its
// returned channel exactly once; in-flight calls are independent and are
// never deduplicated or cancelled by later ones.
type Pipeline struct {
	client *Client
	now    func() time.Time
}

func NewPipeline(client *Client) *Pipeline {
	return &Pipeline{client: client, now: time.Now}
}

func (p *Pipeline) today() string {
	return p.now().Format(core.DateLayout)
}

// ParseBill converts text into a transient Transaction on a background
// goroutine. The returned channel is buffered and receives exactly one
// Result; the caller decides whether and when to persist the value.
func (p *Pipeline) ParseBill(ctx context.Context, text string) <-chan Result[core.Transaction] {
	ch := make(chan Result[core.Transaction], 1)
	go func() {
		today := p.today()
		content, err := p.client.Complete(ctx, buildBillPrompt(today, text))
		if err != nil {
			slog.WarnContext(ctx, "Bill parse failed", "error", err)
			ch <- Result[core.Transaction]{Err: err}
			return
		}
		tx, err := DecodeBill(content, today)
		if err != nil {
			slog.WarnContext(ctx, "Bill decode failed", "error", err)
			ch <- Result[core.Transaction]{Err: err}
			return
		}
		ch <- Result[core.Transaction]{Value: tx}
	}()
	return ch
}

// ParseTask is the task counterpart of ParseBill.
func (p *Pipeline) ParseTask(ctx context.Context, text string) <-chan Result[core.TodoItem] {
	ch := make(chan Result[core.TodoItem], 1)
	go func() {
		today := p.today()
		content, err := p.client.Complete(ctx, buildTaskPrompt(today, text))
		if err != nil {
			slog.WarnContext(ctx, "Task parse failed", "error", err)
			ch <- Result[core.TodoItem]{Err: err}
			return
		}
		item, err := DecodeTask(content, today)
		if err != nil {
			slog.WarnContext(ctx, "Task decode failed", "error", err)
			ch <- Result[core.TodoItem]{Err: err}
			return
		}
		ch <- Result[core.TodoItem]{Value: item}
	}()
	return ch
}
