package annotator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegetablefj/bluearxiv/internal/domain/entity"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: content,
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testPaper() entity.Paper {
	return entity.Paper{
		ID:         "2408.01234",
		Title:      "On Moduli Spaces",
		Authors:    []string{"Alice Doe"},
		Categories: []string{"math.AG"},
		Abstract:   "We study moduli spaces.",
	}
}

func TestOpenAIAnnotate(t *testing.T) {
	srv := chatServer(t, "1\n本文研究了 moduli space 的几何结构.")

	a := NewOpenAI("test-key", Config{
		Model:    "test-model",
		BaseURL:  srv.URL + "/v1",
		Keywords: []string{"moduli space"},
	})

	annotated, err := a.Annotate(context.Background(), testPaper())

	require.NoError(t, err)
	assert.True(t, annotated.Featured)
	assert.Equal(t, "本文研究了 moduli space 的几何结构.", annotated.Commentary)
	assert.Equal(t, "2408.01234", annotated.ID)
}

func TestOpenAIAnnotate_MalformedResponse(t *testing.T) {
	srv := chatServer(t, "no verdict line here")

	a := NewOpenAI("test-key", Config{
		Model:   "test-model",
		BaseURL: srv.URL + "/v1",
	})

	_, err := a.Annotate(context.Background(), testPaper())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestOpenAIAnnotate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	a := NewOpenAI("test-key", Config{
		Model:   "test-model",
		BaseURL: srv.URL + "/v1",
	})

	_, err := a.Annotate(context.Background(), testPaper())

	assert.Error(t, err)
}
