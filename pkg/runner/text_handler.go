package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// TextHandler implements the interactive text interface.
type TextHandler struct {
	Reader        *bufio.Reader
	Writer        io.Writer
	Renderer      ContentRenderer
	FrameRenderer FrameRenderer
	Prompt        string

	mu    sync.Mutex // serializes writes from the loop and the playback timer
	input *linePump
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer for system output.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerFrameRenderer configures how frames are drawn.
func WithTextHandlerFrameRenderer(renderer FrameRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.FrameRenderer = renderer
	}
}

// WithPrompt replaces the "> " prompt. An empty prompt disables it.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	h.input = &linePump{reader: h.Reader}
	return h
}

func (h *TextHandler) write(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprint(h.Writer, s)
}

func (h *TextHandler) Output(ctx context.Context, frame Frame) error {
	text := ""
	if h.FrameRenderer != nil {
		text = h.FrameRenderer(frame)
	} else {
		text = FormatFrame(frame)
	}
	h.write(strings.TrimRight(text, "\n") + "\n")
	return nil
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if h.Prompt != "" {
			h.write(h.Prompt)
		}
		text, err := h.input.next(ctx)
		if err != nil {
			return "", err
		}
		clean, err := SanitizeInput(strings.TrimSpace(text))
		if err != nil {
			h.write(fmt.Sprintf("Error: %v. Please try again.\n", err))
			continue
		}
		return clean, nil
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	out := msg
	if h.Renderer != nil {
		if rendered, err := h.Renderer(msg); err == nil {
			out = rendered
		}
	}
	h.write(strings.TrimRight(out, "\n") + "\n")
	return nil
}
