package runner

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"
)

type inputResult struct {
	text string
	err  error
}

// linePump reads lines in the background so handlers can honour context
// cancellation while the reader blocks.
type linePump struct {
	reader *bufio.Reader
	lines  chan inputResult
	once   sync.Once
}

func (p *linePump) start() {
	p.once.Do(func() {
		p.lines = make(chan inputResult, DefaultInputBufferSize)
		go p.run()
	})
}

func (p *linePump) run() {
	for {
		text, err := p.reader.ReadString('\n')
		if text != "" {
			p.lines <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(p.lines)
				return
			}
			p.lines <- inputResult{err: err}
			// Avoid spinning on a persistently failing reader.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// next returns the next raw line, io.EOF once the reader is drained, or the
// context error if ctx ends first.
func (p *linePump) next(ctx context.Context) (string, error) {
	p.start()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}
