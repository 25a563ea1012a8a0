package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"github.com/taxdesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// chatCompleter is the slice of the OpenAI client the extractor needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIExtractor extracts bank statement lines with an OpenAI chat model.
type OpenAIExtractor struct {
	client  chatCompleter
	model   string
	retry   RetryPolicy
	timeout time.Duration
}

// OpenAIOption customises the extractor.
type OpenAIOption func(*OpenAIExtractor)

// WithRequestTimeout bounds each extraction call, retries included.
func WithRequestTimeout(d time.Duration) OpenAIOption {
	return func(e *OpenAIExtractor) {
		e.timeout = d
	}
}

// NewOpenAIExtractor creates an extractor with the given API key and model
func NewOpenAIExtractor(apiKey, model string, retry RetryPolicy, opts ...OpenAIOption) *OpenAIExtractor {
	if model == "" {
		model = openai.GPT4oMini
	}
	e := &OpenAIExtractor{
		client: openai.NewClient(apiKey),
		model:  model,
		retry:  retry,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

const extractionPrompt = `Extract every transaction from this bank statement text.

STATEMENT:
%s

Return ONLY JSON in the following format, no commentary:
{
  "bank_name": "HDFC Bank",
  "account_number": "XXXX1234",
  "transactions": [
    {
      "date": "2024-05-10",
      "direction": "CREDIT",
      "description": "NEFT Payment INV-100",
      "ref_no": "INV-100",
      "amount": "10000.00",
      "counterparty": "Acme Traders",
      "gstin": "",
      "balance": "52000.00"
    }
  ]
}

Rules:
- direction is CREDIT for money received, DEBIT for money paid out.
- amount and balance are positive decimal strings; omit balance if unknown.
- ref_no is the invoice or UTR reference if one appears in the narration, else "".
- gstin is the counterparty GSTIN if printed, else "".
- dates use YYYY-MM-DD.`

type extractedStatementJSON struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	Transactions  []struct {
		Date         string `json:"date"`
		Direction    string `json:"direction"`
		Description  string `json:"description"`
		RefNo        string `json:"ref_no"`
		Amount       string `json:"amount"`
		Counterparty string `json:"counterparty"`
		GSTIN        string `json:"gstin"`
		Balance      string `json:"balance"`
	} `json:"transactions"`
}

// ExtractStatement sends the raw text to the model and parses the reply.
func (e *OpenAIExtractor) ExtractStatement(ctx context.Context, rawText string) (*ExtractedStatement, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("statement text is empty")
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var content string
	err := e.retry.Do(ctx, func(ctx context.Context) error {
		resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: e.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(extractionPrompt, rawText),
				},
			},
			Temperature: 0.1,
		})
		if err != nil {
			logger.L(ctx).Warn("statement extraction request failed", zap.Error(err))
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no response choices from model")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("statement extraction failed: %w", err)
	}

	parsed, err := parseStatementResponse(content)
	if err != nil {
		logger.L(ctx).Warn("failed to parse extraction response", zap.Error(err))
		return nil, err
	}

	logger.L(ctx).Info("statement extracted",
		zap.String("bank", parsed.BankName),
		zap.Int("transactions", len(parsed.Transactions)),
	)
	return parsed, nil
}

// parseStatementResponse decodes the model reply, tolerating markdown fences.
func parseStatementResponse(content string) (*ExtractedStatement, error) {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var raw extractedStatementJSON
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("model reply is not valid JSON: %w", err)
	}

	stmt := &ExtractedStatement{
		BankName:      raw.BankName,
		AccountNumber: raw.AccountNumber,
	}
	for i, tx := range raw.Transactions {
		date, err := time.Parse("2006-01-02", tx.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: invalid date %q: %w", i, tx.Date, err)
		}
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: invalid amount %q: %w", i, tx.Amount, err)
		}

		var balance *decimal.Decimal
		if tx.Balance != "" {
			b, err := decimal.NewFromString(tx.Balance)
			if err != nil {
				return nil, fmt.Errorf("transaction %d: invalid balance %q: %w", i, tx.Balance, err)
			}
			balance = &b
		}

		stmt.Transactions = append(stmt.Transactions, ExtractedTransaction{
			Date:         date,
			Direction:    strings.ToUpper(strings.TrimSpace(tx.Direction)),
			Description:  tx.Description,
			RefNo:        tx.RefNo,
			Amount:       amount,
			Counterparty: tx.Counterparty,
			GSTIN:        tx.GSTIN,
			Balance:      balance,
		})
	}
	return stmt, nil
}

// Ensure OpenAIExtractor implements StatementExtractor
var _ StatementExtractor = (*OpenAIExtractor)(nil)
