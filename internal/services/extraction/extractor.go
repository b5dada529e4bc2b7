package extraction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"invoice-reconciliation-backend/internal/logger"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// CompletionClient is the slice of the OpenAI client the extractor uses.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Fields are the best-effort structured values pulled from one document.
// Any field may be absent; downstream code must not assume presence.
type Fields struct {
	InvoiceNo     string   `json:"invoice_no"`
	InvoiceDate   string   `json:"invoice_date"`
	SupplierName  string   `json:"supplier_name"`
	BuyerName     string   `json:"buyer_name"`
	Address       string   `json:"address"`
	SupplierGSTIN string   `json:"supplier_gstin"`
	BuyerGSTIN    string   `json:"buyer_gstin"`
	BasicAmount   *float64 `json:"basic_amount"`
	GSTAmount     *float64 `json:"gst"`
	TotalAmount   *float64 `json:"total_amount"`
}

// Confidence maps field name to a score in [0,1].
type Confidence map[string]float64

var fieldKeys = []string{
	"invoice_no", "invoice_date", "supplier_name", "buyer_name", "address",
	"supplier_gstin", "buyer_gstin", "basic_amount", "gst", "total_amount",
}

// defaultConfidence is assumed when the model omits a field's score.
const defaultConfidence = 85

const systemPrompt = "You are an invoice data extraction assistant. Extract structured data from invoices accurately."

const extractionPrompt = `Extract the following information from this invoice:
- Invoice No
- Invoice Date (in DD/MM/YYYY format)
- Supplier Name and Supplier GSTIN
- Buyer Name and Buyer GSTIN
- Address
- Basic Amount (before GST)
- GST Amount
- Total Amount

Respond in JSON format with keys: invoice_no, invoice_date, supplier_name,
buyer_name, address, supplier_gstin, buyer_gstin, basic_amount, gst,
total_amount. Also include a confidence score (0-100) for each field in a
separate object with the same keys.

Format:
{
    "data": {"invoice_no": "...", ...},
    "confidence": {"invoice_no": 95, ...}
}`

// Extractor calls a vision-capable chat model to pull structured fields out
// of a scanned or photographed invoice. Extraction is best-effort and
// non-deterministic; failures degrade to empty fields with zero confidence
// rather than blocking the upload.
type Extractor struct {
	client CompletionClient
	model  string
	log    zerolog.Logger
}

func New(client CompletionClient, model string) *Extractor {
	return &Extractor{
		client: client,
		model:  model,
		log:    logger.WithComponent("extraction"),
	}
}

func (e *Extractor) Extract(ctx context.Context, fileData []byte, mimeType string) (Fields, Confidence) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(fileData))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: extractionPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
	})
	if err != nil {
		e.log.Error().Err(err).Msg("extraction call failed, returning empty fields")
		return Fields{}, zeroConfidence()
	}
	if len(resp.Choices) == 0 {
		e.log.Error().Msg("extraction returned no choices")
		return Fields{}, zeroConfidence()
	}

	fields, confidence, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		e.log.Error().Err(err).Msg("extraction response unparsable, returning empty fields")
		return Fields{}, zeroConfidence()
	}
	return fields, confidence
}

func parseResponse(raw string) (Fields, Confidence, error) {
	var payload struct {
		Data       Fields             `json:"data"`
		Confidence map[string]float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return Fields{}, nil, err
	}

	confidence := make(Confidence, len(fieldKeys))
	for _, key := range fieldKeys {
		score, ok := payload.Confidence[key]
		if !ok {
			score = defaultConfidence
		}
		confidence[key] = score / 100
	}
	return payload.Data, confidence, nil
}

// stripFences removes a markdown code fence around the model's JSON reply.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if after, found := strings.CutPrefix(raw, "```json"); found {
		raw = after
	} else if after, found := strings.CutPrefix(raw, "```"); found {
		raw = after
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

func zeroConfidence() Confidence {
	confidence := make(Confidence, len(fieldKeys))
	for _, key := range fieldKeys {
		confidence[key] = 0
	}
	return confidence
}
