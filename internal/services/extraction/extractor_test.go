package extraction

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type stubClient struct {
	content string
	err     error
}

func (s *stubClient) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

const fencedResponse = "```json\n" + `{
  "data": {
    "invoice_no": "INV-42",
    "invoice_date": "01/04/2025",
    "supplier_name": "Acme Corp",
    "supplier_gstin": "27AAAAA0000A1Z5",
    "total_amount": 11800.0
  },
  "confidence": {
    "invoice_no": 95,
    "total_amount": 90
  }
}` + "\n```"

func TestExtractParsesFencedJSON(t *testing.T) {
	e := New(&stubClient{content: fencedResponse}, "test-model")

	fields, confidence := e.Extract(context.Background(), []byte("fake-image"), "image/png")

	if fields.InvoiceNo != "INV-42" {
		t.Errorf("invoice_no = %q", fields.InvoiceNo)
	}
	if fields.SupplierName != "Acme Corp" {
		t.Errorf("supplier_name = %q", fields.SupplierName)
	}
	if fields.TotalAmount == nil || *fields.TotalAmount != 11800.0 {
		t.Errorf("total_amount = %v", fields.TotalAmount)
	}
	if fields.BasicAmount != nil {
		t.Error("absent basic_amount must stay nil")
	}

	if confidence["invoice_no"] != 0.95 {
		t.Errorf("invoice_no confidence = %v", confidence["invoice_no"])
	}
	// Fields the model scored get their score; omitted ones default to 85.
	if confidence["supplier_name"] != 0.85 {
		t.Errorf("defaulted confidence = %v", confidence["supplier_name"])
	}
}

func TestExtractDegradesOnClientError(t *testing.T) {
	e := New(&stubClient{err: errors.New("rate limited")}, "test-model")

	fields, confidence := e.Extract(context.Background(), []byte("fake"), "application/pdf")

	if fields != (Fields{}) {
		t.Errorf("expected empty fields, got %+v", fields)
	}
	for key, score := range confidence {
		if score != 0 {
			t.Errorf("confidence[%s] = %v, expected 0 on failure", key, score)
		}
	}
	if len(confidence) == 0 {
		t.Error("confidence map must still enumerate every field")
	}
}

func TestExtractDegradesOnGarbageResponse(t *testing.T) {
	e := New(&stubClient{content: "sorry, I cannot read this document"}, "test-model")

	fields, confidence := e.Extract(context.Background(), []byte("fake"), "image/jpeg")
	if fields != (Fields{}) {
		t.Errorf("expected empty fields, got %+v", fields)
	}
	if confidence["total_amount"] != 0 {
		t.Error("expected zero confidence on unparsable response")
	}
}

func TestStripFences(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "json fence", in: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "no fence", in: `{"a":1}`, expected: `{"a":1}`},
		{name: "surrounding whitespace", in: "  {\"a\":1}\n", expected: `{"a":1}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.expected {
				t.Errorf("stripFences(%q) = %q, expected %q", tc.in, got, tc.expected)
			}
		})
	}
}
