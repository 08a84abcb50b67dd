// Command aisearch runs a spoken dialogue that narrows the user's need
// down to one entry of the service taxonomy, rendered as a terminal UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/surajmsd1/aisearch-core/core"
	"github.com/surajmsd1/aisearch-core/core/audio/miniaudio"
	"github.com/surajmsd1/aisearch-core/core/audio/portaudio"
	"github.com/surajmsd1/aisearch-core/core/llms/openai"
	speechtotextdeepgram "github.com/surajmsd1/aisearch-core/core/speechtotext/deepgram"
	texttospeechdeepgram "github.com/surajmsd1/aisearch-core/core/texttospeech/deepgram"
	"github.com/surajmsd1/aisearch-core/internal/config"
	"github.com/surajmsd1/aisearch-core/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// the deepgram clients authenticate through the environment
	if os.Getenv("DEEPGRAM_API_KEY") == "" {
		os.Setenv("DEEPGRAM_API_KEY", cfg.DeepgramAPIKey)
	}

	services, err := cfg.Taxonomy()
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}

	audioDevice, closeAudio, err := newAudioClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	defer closeAudio()

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithStreamingLLM(openai.NewClient(cfg.OpenAIAPIKey, openai.WithModel(cfg.Model))),
		orchestration.WithSpeechToTextClient(speechtotextdeepgram.NewTranscriptionClient()),
		orchestration.WithTextToSpeechClient(texttospeechdeepgram.NewClient(
			texttospeechdeepgram.WithVoice(cfg.Voice),
			texttospeechdeepgram.WithEncodingInfo(audioDevice.EncodingInfo()),
		)),
		orchestration.WithAudioInput(audioDevice),
		orchestration.WithAudioOutput(audioDevice),
		orchestration.WithTaxonomy(services),
		orchestration.WithSilenceThreshold(cfg.SilenceThreshold()),
		orchestration.WithSettleDelay(cfg.SettleDelay()),
	)
	defer orchestrator.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// typed utterances take the same path as spoken ones; submitted off
	// the UI loop so a busy dialogue cannot stall rendering
	model := tui.NewModel(func(text string) {
		go func() { _ = orchestrator.SendPrompt(ctx, text) }()
	})
	program := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		err := orchestrator.Orchestrate(ctx, tui.OrchestrateOptions(program)...)
		tui.SessionEnded(program, err)
	}()

	if _, err := program.Run(); err != nil {
		return err
	}

	if result := orchestrator.Result(); result != nil {
		fmt.Printf("Matched service: %s / %s\n", result.Category, result.Subcategory)
	}
	usage := orchestrator.Usage()
	fmt.Printf("Usage: %d input tokens, %d output tokens, %d synthesized characters\n",
		usage.InputTokens, usage.OutputTokens, usage.SynthesizedCharacters)
	return nil
}

type audioClient interface {
	orchestration.AudioInput
	orchestration.AudioOutput
}

func newAudioClient(cfg config.Config) (audioClient, func(), error) {
	switch cfg.AudioBackend {
	case config.BackendPortAudio:
		client, err := portaudio.NewClient(1024)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
}
