package notice

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	n.Notify(Notice{Level: Info, Message: "Draft restored."})
	n.Notify(Notice{Level: Error, Message: "Upload failed.", Err: errors.New("timeout")})

	out := buf.String()
	assert.Contains(t, out, `level=INFO msg="Draft restored."`)
	assert.Contains(t, out, `level=ERROR msg="Upload failed." error=timeout`)
}
