package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
)

// Message is one JSON line written by the JSONHandler.
type Message struct {
	Type    string `json:"type"` // "frame" or "system"
	Frame   *Frame `json:"frame,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Commands are read one per line, either as a JSON string ("next") or raw text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder

	mu    sync.Mutex
	input *linePump
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	reader := bufio.NewReader(r)
	return &JSONHandler{
		Reader:  reader,
		Writer:  w,
		Encoder: json.NewEncoder(w),
		input:   &linePump{reader: reader},
	}
}

func (h *JSONHandler) emit(m Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(m)
}

func (h *JSONHandler) Output(ctx context.Context, frame Frame) error {
	return h.emit(Message{Type: "frame", Frame: &frame})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit(Message{Type: "system", Message: msg})
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.input.next(ctx)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return SanitizeInput(text)
}
