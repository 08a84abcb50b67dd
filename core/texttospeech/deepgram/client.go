// Package deepgram implements speech synthesis over the Deepgram speak REST
// API. Each call synthesizes exactly one text chunk into raw audio; the
// sequencing of chunks is the caller's concern.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/surajmsd1/aisearch-core/core/audio"
	"github.com/surajmsd1/aisearch-core/core/texttospeech"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const speakURL = "https://api.deepgram.com/v1/speak"

type deepgramVoice string

const DefaultVoice deepgramVoice = "aura-2-thalia-en"

type TextToSpeechClient struct {
	voice      deepgramVoice
	options    texttospeech.SynthesisOptions
	httpClient *http.Client
}

type ClientOption func(*TextToSpeechClient)

// WithVoice overrides the default synthesis voice.
func WithVoice(voice string) ClientOption {
	return func(c *TextToSpeechClient) {
		if voice != "" {
			c.voice = deepgramVoice(voice)
		}
	}
}

// WithEncodingInfo sets the audio encoding requested from the service.
func WithEncodingInfo(encodingInfo audio.EncodingInfo) ClientOption {
	return func(c *TextToSpeechClient) {
		c.options.EncodingInfo = encodingInfo
	}
}

func NewClient(opts ...ClientOption) *TextToSpeechClient {
	client := &TextToSpeechClient{
		voice:   DefaultVoice,
		options: texttospeech.SynthesisOptions{EncodingInfo: audio.GetDefaultEncodingInfo()},
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Synthesize converts one text chunk to playable audio and reports the
// character-count usage figure for it.
func (c *TextToSpeechClient) Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) (*texttospeech.Synthesis, error) {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	options := c.options
	options.Voice = string(c.voice)
	for _, opt := range opts {
		opt(&options)
	}

	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	urlValues := url.Values{}
	urlValues.Set("encoding", options.EncodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(options.EncodingInfo.SampleRate))
	urlValues.Set("model", options.Voice)
	urlValues.Set("container", "none")

	requestBody, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		speakURL+"?"+urlValues.Encode(), bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+apiKey)

	span.SetAttributes(attribute.String("request.model", options.Voice))
	span.SetAttributes(attribute.Int("request.characters", utf8.RuneCountInString(text)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		return nil, err
	}

	speech, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading synthesized audio: %w", err)
		span.RecordError(err)
		return nil, err
	}

	return &texttospeech.Synthesis{
		Audio:      speech,
		Characters: utf8.RuneCountInString(text),
	}, nil
}
