package service

import (
	"context"
	"testing"

	"github.com/corethink/backend/internal/llm"
	"github.com/stretchr/testify/require"
)

const pagesReply = "const defaultPages = [\n" +
	"  {path: \"/\", component: 'Home', exact: true, code: `const Home = () => <div>Hi</div>;`}\n" +
	"];"

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("parses pages and extends the history", func(t *testing.T) {
		model := &fakeLLM{reply: pagesReply}
		svc := &ChatService{LLM: model}

		result, err := svc.GenerateTemplate(ctx, "A landing page for a bakery", nil)
		require.NoError(t, err)

		require.Len(t, result.GeneratedPages, 1)
		require.Equal(t, "Home", result.GeneratedPages[0].Component)

		require.Len(t, result.ConversationHistory, 2)
		require.Equal(t, "user", result.ConversationHistory[0].Sender)
		require.Equal(t, "assistant", result.ConversationHistory[1].Sender)
		require.Equal(t, result.GeneratedPages, result.ConversationHistory[1].GeneratedPages)
	})

	t.Run("only user prompts are replayed to the model", func(t *testing.T) {
		model := &fakeLLM{reply: pagesReply}
		svc := &ChatService{LLM: model}

		history := []ChatMessage{
			{ID: "1", Text: "make it blue", Sender: "user"},
			{ID: "2", Text: "I've generated new pages based on your request!", Sender: "assistant"},
		}
		_, err := svc.GenerateTemplate(ctx, "add a contact page", history)
		require.NoError(t, err)

		require.Len(t, model.turns[0], 2)
		require.Equal(t, llm.RoleUser, model.turns[0][0].Role)
		require.Equal(t, "make it blue", model.turns[0][0].Content)
		require.Equal(t, "add a contact page", model.turns[0][1].Content)
	})

	t.Run("unparseable reply yields empty pages, not an error", func(t *testing.T) {
		model := &fakeLLM{reply: "I cannot do that."}
		svc := &ChatService{LLM: model}

		result, err := svc.GenerateTemplate(ctx, "???", nil)
		require.NoError(t, err)
		require.Empty(t, result.GeneratedPages)
		require.Len(t, result.ConversationHistory, 2)
	})
}

func TestCollectPages(t *testing.T) {
	t.Parallel()

	svc := &ChatService{}

	history := []ChatMessage{
		{Sender: "user", Text: "one"},
		{Sender: "assistant", GeneratedPages: []llm.Page{{Path: "/", Component: "A"}}},
		{Sender: "user", Text: "two"},
		{Sender: "assistant", GeneratedPages: []llm.Page{{Path: "/b", Component: "B"}, {Path: "/c", Component: "C"}}},
	}

	pages := svc.CollectPages(history)
	require.Len(t, pages, 3)
	require.Equal(t, "A", pages[0].Component)
	require.Equal(t, "C", pages[2].Component)

	require.Empty(t, svc.CollectPages(nil))
}
