package ai

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"strings"

	"github.com/Jxnis/sui-portfolio-analysis-agent/core"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "data: [DONE]"
)

// streamChunk is the fragment of the upstream delta payload we care about.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Reframer turns the upstream completion byte stream into normalized
// StreamEvents. The upstream protocol frames each increment as a
// "data: <json>" line with the incremental text at choices[0].delta.content,
// terminated by a "data: [DONE]" sentinel.
//
// Reframer is pull-based: call Next until it returns io.EOF. Lines that
// don't match the framing, or whose JSON lacks a delta, are dropped without
// aborting the stream; upstream protocol variations are common and a
// heartbeat is indistinguishable from a malformed record.
type Reframer struct {
	scanner *bufio.Scanner
	closed  bool
}

// NewReframer wraps an upstream body. A nil upstream yields an immediately
// closed stream.
func NewReframer(upstream io.Reader) *Reframer {
	if upstream == nil {
		return &Reframer{closed: true}
	}
	scanner := bufio.NewScanner(upstream)
	// Delta lines are small, but error payloads and tool-call chunks can
	// run long.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reframer{scanner: scanner}
}

// Next returns the next outbound event, preserving upstream order. It
// returns io.EOF once the terminal sentinel arrives or the upstream ends;
// after that no further upstream bytes are consumed.
func (r *Reframer) Next() (core.StreamEvent, error) {
	if r.closed {
		return core.StreamEvent{}, io.EOF
	}

	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		if line == doneSentinel {
			r.closed = true
			return core.StreamEvent{}, io.EOF
		}
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &chunk); err != nil {
			log.Printf("Skipping malformed stream line: %v", err)
			continue
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		return core.StreamEvent{Content: chunk.Choices[0].Delta.Content}, nil
	}

	// Upstream ended without an explicit sentinel; close cleanly either way.
	if err := r.scanner.Err(); err != nil {
		log.Printf("Upstream stream ended with error: %v", err)
	}
	r.closed = true
	return core.StreamEvent{}, io.EOF
}
