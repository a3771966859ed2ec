package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/gtanav/assistant/backend/internal/analysis/intent"
	"github.com/gtanav/assistant/backend/internal/model/chat"
)

const (
	extraIntent      = "intent"
	extraSuggestions = "suggestions"
	extraLinks       = "links"
)

// replyChain turns a user utterance into an assistant message:
// match the intent, then render it as a schema message.
type replyChain struct {
	runnable compose.Runnable[string, *schema.Message]
}

func newReplyChain(ctx context.Context, matcher *intent.Matcher) (*replyChain, error) {
	if matcher == nil {
		return nil, fmt.Errorf("intent matcher is required")
	}

	chain := compose.NewChain[string, *schema.Message]()
	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, text string) (intent.Result, error) {
		return matcher.Match(text), nil
	}))
	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, res intent.Result) (*schema.Message, error) {
		msg := schema.AssistantMessage(res.Text, nil)
		msg.Extra = map[string]any{
			extraIntent:      string(res.Intent),
			extraSuggestions: res.Suggestions,
			extraLinks:       res.Links,
		}
		return msg, nil
	}))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reply chain: %w", err)
	}
	return &replyChain{runnable: runnable}, nil
}

func (c *replyChain) generate(ctx context.Context, userMsg chat.Message) (chat.Message, error) {
	out, err := c.runnable.Invoke(ctx, userMsg.Text)
	if err != nil {
		return chat.Message{}, fmt.Errorf("invoke reply chain: %w", err)
	}

	reply := chat.Message{
		ID:        uuid.NewString(),
		SessionID: userMsg.SessionID,
		Text:      out.Content,
		IsUser:    false,
		Timestamp: time.Now().UTC(),
	}
	if label, ok := out.Extra[extraIntent].(string); ok {
		reply.Intent = label
	}
	if suggestions, ok := out.Extra[extraSuggestions].([]string); ok {
		reply.Suggestions = suggestions
	}
	if links, ok := out.Extra[extraLinks].([]chat.Link); ok {
		reply.Links = links
	}
	return reply, nil
}
