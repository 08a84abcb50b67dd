package deepgram

import (
	"go.opentelemetry.io/otel"
)

const scopeName = "github.com/surajmsd1/aisearch-core/core/texttospeech/deepgram"

var tracer = otel.Tracer(scopeName)
