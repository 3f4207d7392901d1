package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	content  string
	err      error
	received []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.received = in
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestExtractJob(t *testing.T) {
	fake := &fakeChatModel{content: `{"title":"Engineer"}`}
	svc := NewServiceWithModel(Config{Model: "test", Timeout: time.Second}, fake)

	got, err := svc.ExtractJob(context.Background(), "page text here", "https://jobs.example/1")
	if err != nil {
		t.Fatalf("ExtractJob: %v", err)
	}
	if got != `{"title":"Engineer"}` {
		t.Errorf("response = %q", got)
	}

	if len(fake.received) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(fake.received))
	}
	if fake.received[0].Role != schema.System {
		t.Errorf("first message role = %v", fake.received[0].Role)
	}
	if !strings.Contains(fake.received[1].Content, "https://jobs.example/1") {
		t.Errorf("user message missing source url: %q", fake.received[1].Content)
	}
	if !strings.Contains(fake.received[1].Content, "page text here") {
		t.Errorf("user message missing page text")
	}
}

func TestExtractJobEmptyContent(t *testing.T) {
	svc := NewServiceWithModel(Config{Model: "test"}, &fakeChatModel{content: "   "})
	if _, err := svc.ExtractJob(context.Background(), "text", "https://x"); err == nil {
		t.Fatal("expected error for empty model content")
	}
}

func TestExtractJobGenerationError(t *testing.T) {
	svc := NewServiceWithModel(Config{Model: "test"}, &fakeChatModel{err: errors.New("quota exceeded")})
	if _, err := svc.ExtractJob(context.Background(), "text", "https://x"); err == nil {
		t.Fatal("expected generation error to propagate")
	}
}
