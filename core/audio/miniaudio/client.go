// Package miniaudio provides microphone capture and speaker playback on top
// of malgo. It is the default audio backend for the dialogue core.
package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/surajmsd1/aisearch-core/core/audio"
)

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackDevice
	captureDevice
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := Client{
		audioContext: audioCtx,
	}

	if err := client.playbackDevice.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := client.playbackDevice.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	if err := client.captureDevice.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return &client, nil
}

// Stream starts microphone capture, delivering raw frames to onAudio until
// the context is cancelled or the client is closed.
func (c *Client) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	if err := c.captureDevice.Start(onAudio); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		_ = c.captureDevice.Stop()
	}()

	return nil
}

// Play enqueues audio for playback and blocks until it has been played out,
// the playback buffer is cleared, or the context is cancelled.
func (c *Client) Play(ctx context.Context, audio []byte) error {
	if err := c.playbackDevice.Enqueue(audio); err != nil {
		return err
	}

	played := make(chan struct{})
	c.playbackDevice.Mark(func() { close(played) })

	select {
	case <-played:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}

func (c *Client) Close() {
	_ = c.captureDevice.Uninit()
	_ = c.playbackDevice.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}
