package logs

import (
	"log/slog"

	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

type Span string

type spanKey struct{}

var SpanKey = spanKey{}

// Discard is a logger that drops every record. Components use it when no
// logger is injected.
var Discard Logger = slog.New(slog.DiscardHandler)
