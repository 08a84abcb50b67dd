// Package portaudio provides an alternative microphone capture and speaker
// playback backend on top of PortAudio, for platforms where the miniaudio
// backend is unavailable.
package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/surajmsd1/aisearch-core/core/audio"
)

type Client struct {
	bufferSize int
	stream     *portaudio.Stream

	in  []int16
	out []int16

	playbackMu sync.Mutex
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, bufferSize, in, out)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

// Stream reads microphone frames in a loop and delivers them to onAudio
// until the context is cancelled.
func (c *Client) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := c.stream.Read(); err != nil {
					continue
				}

				audioBuffer := bytes.Buffer{}
				binary.Write(&audioBuffer, binary.LittleEndian, c.in)
				onAudio(audioBuffer.Bytes())
			}
		}
	}()

	return nil
}

// Play writes audio to the output stream and blocks until written out or the
// context is cancelled. PortAudio writes are synchronous per buffer, so this
// naturally plays chunks one at a time.
func (c *Client) Play(ctx context.Context, playback []byte) error {
	c.playbackMu.Lock()
	defer c.playbackMu.Unlock()

	frameBytes := c.bufferSize * 2
	for offset := 0; offset < len(playback); offset += frameBytes {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := offset + frameBytes
		if end > len(playback) {
			// zero-pad the final partial buffer
			padded := make([]byte, frameBytes)
			copy(padded, playback[offset:])
			binary.Read(bytes.NewBuffer(padded), binary.LittleEndian, c.out)
		} else {
			binary.Read(bytes.NewBuffer(playback[offset:end]), binary.LittleEndian, c.out)
		}

		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
	}

	return nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}

func (c *Client) Close() {
	c.stream.Close()
	portaudio.Terminate()
}
