package lsp

import (
	"regexp"
	"strconv"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// diagLinePattern parses the core's "[HIPIFY] warning: file:line:col: msg"
// diagnostic format back into structured fields, since diagnose.Reporter's
// only output channel is a plain io.Writer.
// The file field is matched greedily since LSP URIs embed colons of their
// own (e.g. "file:///tmp/x.cu"); greedy backtracking still anchors the
// trailing ":line:col: " group correctly.
var diagLinePattern = regexp.MustCompile(`^\[HIPIFY\] (warning|error): .*:(\d+):(\d+): (.*)$`)

type diagLine struct {
	severity string
	line     int
	col      int
	message  string
}

func (d diagLine) toProtocol() protocol.Diagnostic {
	sev := protocol.DiagnosticSeverityWarning
	if d.severity == "error" {
		sev = protocol.DiagnosticSeverityError
	}

	line := uint32(0)
	if d.line > 0 {
		line = uint32(d.line - 1)
	}

	col := uint32(0)
	if d.col > 0 {
		col = uint32(d.col - 1)
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: &sev,
		Source:   strPtr("hipify"),
		Message:  d.message,
	}
}

func strPtr(s string) *string { return &s }

// collectingReporter buffers raw diagnostic lines written by a
// diagnose.Reporter and parses each into a diagLine for LSP publishing.
type collectingReporter struct {
	buf   []byte
	lines []diagLine
}

func (c *collectingReporter) Write(p []byte) (int, error) {
	c.buf = append(c.buf, p...)

	for {
		idx := indexByte(c.buf, '\n')
		if idx < 0 {
			break
		}

		line := string(c.buf[:idx])
		c.buf = c.buf[idx+1:]

		if m := diagLinePattern.FindStringSubmatch(line); m != nil {
			lineNum, _ := strconv.Atoi(m[2])
			colNum, _ := strconv.Atoi(m[3])
			c.lines = append(c.lines, diagLine{severity: m[1], line: lineNum, col: colNum, message: m[4]})
		}
	}

	return len(p), nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}

	return -1
}
