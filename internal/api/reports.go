package api

import (
	"context"
	"io"
	"time"
)

const (
	pathReports      = "/api/reports/"
	pathReportUpload = "/api/reports/upload/"
	pathChat         = "/api/chat/"
)

// Report is a previously uploaded report with its stored analysis.
type Report struct {
	ID            int       `json:"id"`
	FileName      string    `json:"file_name"`
	UploadedAt    time.Time `json:"uploaded_at"`
	Summary       string    `json:"summary"`
	ExtractedText string    `json:"extracted_text" table:"-"`
	Findings      []Finding `json:"findings" table:"-"`
}

// Finding is a single structured observation from the analysis.
type Finding struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"reference_range" table:"wide"`
	Status         string `json:"status"`
	Explanation    string `json:"explanation" table:"-"`
}

// Analysis is the structured result returned for a fresh upload.
type Analysis struct {
	ReportID      int       `json:"report_id"`
	Summary       string    `json:"summary"`
	Findings      []Finding `json:"findings"`
	ExtractedText string    `json:"extracted_text"`
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role  string     `json:"role"` // "user" or "model"
	Parts []ChatPart `json:"parts"`
}

// ChatPart is a content fragment within a chat message.
type ChatPart struct {
	Text string `json:"text"`
}

// UserMessageTurn builds a user turn for the chat history.
func UserMessageTurn(text string) ChatMessage {
	return ChatMessage{Role: "user", Parts: []ChatPart{{Text: text}}}
}

// ModelMessageTurn builds a model turn for the chat history.
func ModelMessageTurn(text string) ChatMessage {
	return ChatMessage{Role: "model", Parts: []ChatPart{{Text: text}}}
}

// ListReports fetches the caller's uploaded reports.
func (c *Client) ListReports(ctx context.Context) ([]Report, error) {
	var reports []Report
	err := c.get(ctx, pathReports, &reports)
	return reports, err
}

// UploadReport submits report bytes for analysis. The service expects a
// multipart body with the file under the "report_file" field.
func (c *Client) UploadReport(ctx context.Context, filename string, r io.Reader) (Analysis, error) {
	var analysis Analysis
	err := c.postMultipart(ctx, pathReportUpload, "report_file", filename, r, &analysis)
	return analysis, err
}

// Chat sends a follow-up question about a report, with the conversation so
// far, and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, reportText string, history []ChatMessage) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	err := c.postJSON(ctx, pathChat, map[string]any{
		"report_text": reportText,
		"history":     history,
	}, &out)
	return out.Response, err
}
