package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/toonforge/battlelab/internal/constants"
	"github.com/toonforge/battlelab/internal/dedupe"
	"github.com/toonforge/battlelab/internal/logging"
	"github.com/toonforge/battlelab/internal/sim"
)

// Client calls the OpenAI chat completions API for turn recommendations.
// Concurrent requests for the same session, turn and actor collapse into a
// single upstream call.
type Client struct {
	model string
	http  *http.Client
}

// NewClient returns an OpenAI-backed advisor. An empty model keeps the
// default.
func NewClient(model string) *Client {
	if model == "" {
		model = constants.OpenAIChatModel
	}
	return &Client{
		model: model,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Recommend asks the model for the best move for the current actor. Any
// failure (missing key, transport, bad JSON) returns an error; callers are
// expected to degrade to Fallback.
func (c *Client) Recommend(ctx context.Context, sessionID string, gs *sim.GameState) (Recommendation, error) {
	actor := gs.CurrentActor()
	if actor == nil {
		return Recommendation{}, fmt.Errorf("no acting character")
	}

	key := fmt.Sprintf("%s:%d:%s", sessionID, gs.TurnNumber, actor.ID)
	ch := dedupe.RecommendationGroup.DoChan(key, func() (interface{}, error) {
		return c.callOpenAI(ctx, gs, actor)
	})

	select {
	case <-ctx.Done():
		return Recommendation{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Recommendation{}, res.Err
		}
		return res.Val.(Recommendation), nil
	}
}

func (c *Client) callOpenAI(ctx context.Context, gs *sim.GameState, actor *sim.Character) (Recommendation, error) {
	apiKey := os.Getenv(constants.EnvOpenAIAPIKey)
	if apiKey == "" {
		return Recommendation{}, fmt.Errorf("%s not set", constants.EnvOpenAIAPIKey)
	}

	payload := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserPrompt(gs, actor)},
		},
		"response_format": map[string]string{"type": "json_object"},
		"temperature":     0.3,
		"max_tokens":      200,
	}

	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		constants.OpenAIBaseURL+constants.OpenAIChatCompletionsPath, bytes.NewBuffer(b))
	if err != nil {
		return Recommendation{}, err
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+apiKey)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return Recommendation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Recommendation{}, fmt.Errorf("openai error: %d %s", resp.StatusCode, string(body))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Recommendation{}, err
	}
	if len(out.Choices) == 0 {
		return Recommendation{}, fmt.Errorf("empty response from OpenAI")
	}

	var rec Recommendation
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		return Recommendation{}, fmt.Errorf("bad recommendation payload: %w", err)
	}
	if rec.SkillID == "" {
		return Recommendation{}, fmt.Errorf("recommendation missing skill id")
	}
	rec.Source = "openai"

	logging.Info("turn recommendation", logging.Fields{
		constants.LogFieldTurn:      gs.TurnNumber,
		constants.LogFieldCharacter: actor.ID,
		constants.LogFieldSkillID:   rec.SkillID,
		constants.LogFieldSource:    rec.Source,
	})
	return rec, nil
}
