package processing

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"tutorgate/server/extract"
	"tutorgate/server/metrics"
	"tutorgate/server/prompt"
	"tutorgate/server/provider"
)

// historyLimit bounds how much conversation history is forwarded per call.
// Truncation is last-N, order-preserving.
const historyLimit = 12

// fallbackReply is returned when extraction yields a falsy value. Extraction
// *failures* do not reach this path; they surface as server errors. The
// asymmetry is intentional and must not be collapsed.
const fallbackReply = "Sorry—no response text returned."

// Fixed generation parameters for every model call.
const (
	temperature     = 0.6
	topP            = 0.95
	maxOutputTokens = 4096
)

// Processor orchestrates a single chat exchange: prompt building, history
// projection, the model call, and reply extraction. It is stateless per
// request and safe for concurrent use.
type Processor struct {
	generator provider.Generator
	metrics   *metrics.Metrics
	logger    *zap.Logger

	encOnce sync.Once
	encoder *tiktoken.Tiktoken
}

// NewProcessor creates a processor. metrics may be nil in tests.
func NewProcessor(generator provider.Generator, m *metrics.Metrics, logger *zap.Logger) *Processor {
	return &Processor{
		generator: generator,
		metrics:   m,
		logger:    logger,
	}
}

// ProcessChat runs the full shaping pipeline for one validated request.
// Any returned error maps to a generic server error at the HTTP boundary;
// the error itself carries the detail for logs.
func (p *Processor) ProcessChat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	state := parseState(req.State, p.logger)
	instruction := prompt.Build(state)

	turns := Project(truncateHistory(req.History), req.Message)
	p.observePromptTokens(instruction, turns)

	raw, err := p.generator.Generate(ctx, &provider.ModelRequest{
		SystemInstruction: instruction,
		Turns:             turns,
		Temperature:       temperature,
		TopP:              topP,
		MaxOutputTokens:   maxOutputTokens,
		ForceJSON:         true,
	})
	if err != nil {
		return nil, err
	}

	reply, err := extract.Extract(raw)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		reply = fallbackReply
	}

	return &ChatResponse{
		Reply: reply,
		State: req.State,
	}, nil
}

// Project converts history entries into model-facing turns and appends the
// new message as a final user turn. Entries with empty content are dropped;
// "assistant" maps to the model role, everything else to the user role.
// Truncation is the caller's responsibility.
func Project(history []HistoryEntry, newMessage string) []provider.Turn {
	turns := make([]provider.Turn, 0, len(history)+1)
	for _, entry := range history {
		if entry.Content == "" {
			continue
		}
		role := provider.RoleUser
		if entry.Role == "assistant" {
			role = provider.RoleModel
		}
		turns = append(turns, provider.Turn{Role: role, Text: entry.Content})
	}
	return append(turns, provider.Turn{Role: provider.RoleUser, Text: newMessage})
}

func truncateHistory(history []HistoryEntry) []HistoryEntry {
	if len(history) > historyLimit {
		return history[len(history)-historyLimit:]
	}
	return history
}

// parseState decodes the caller's raw state for prompt building. Unknown
// fields are ignored and an unparseable state degrades to the placeholder
// defaults; the raw bytes are echoed back either way.
func parseState(raw json.RawMessage, logger *zap.Logger) prompt.State {
	var state prompt.State
	if len(raw) == 0 {
		return state
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		logger.Warn("Unparseable conversation state, using defaults", zap.Error(err))
		return prompt.State{}
	}
	return state
}

// observePromptTokens records an estimated token count for the assembled
// prompt. Estimation only; nothing is enforced and failure to load the
// encoding (it may require a network fetch) just disables the estimate.
func (p *Processor) observePromptTokens(instruction string, turns []provider.Turn) {
	p.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			p.logger.Debug("Token encoding unavailable, skipping prompt estimates", zap.Error(err))
			return
		}
		p.encoder = enc
	})
	if p.encoder == nil {
		return
	}

	total := len(p.encoder.Encode(instruction, nil, nil))
	for _, turn := range turns {
		total += len(p.encoder.Encode(turn.Text, nil, nil))
	}

	p.logger.Debug("Prompt assembled", zap.Int("token_estimate", total), zap.Int("turns", len(turns)))
	if p.metrics != nil {
		p.metrics.PromptTokens.Observe(float64(total))
	}
}
