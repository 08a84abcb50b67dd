package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/surajmsd1/aisearch-core/core/audio"
)

type playbackDevice struct {
	device *malgo.Device
	config malgo.DeviceConfig

	pendingAudio []byte
	marks        []playbackMark

	mu      sync.Mutex
	audioMu sync.Mutex
	marksMu sync.Mutex
}

type playbackMark struct {
	position int
	callback func()
}

func (c *playbackDevice) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(audio.DefaultSampleRate)
	format := malgo.FormatS16
	channels := 1
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = sampleRate
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	c.config.Periods = 4

	var err error
	if c.device, err = malgo.InitDevice(
		audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	); err != nil {
		return err
	}

	return nil
}

func (c *playbackDevice) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

func (c *playbackDevice) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	c.Clear()
	return nil
}

// Enqueue appends audio to the playback buffer. The device callback drains
// the buffer at playback speed.
func (c *playbackDevice) Enqueue(audio []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.pendingAudio = append(c.pendingAudio, audio...)
	return nil
}

// Mark registers a callback fired once playback has consumed everything
// enqueued so far.
func (c *playbackDevice) Mark(callback func()) {
	c.audioMu.Lock()
	position := len(c.pendingAudio)
	c.audioMu.Unlock()

	c.marksMu.Lock()
	defer c.marksMu.Unlock()
	c.marks = append(c.marks, playbackMark{position: position, callback: callback})
}

func (c *playbackDevice) Clear() {
	c.audioMu.Lock()
	c.marksMu.Lock()
	defer c.audioMu.Unlock()
	defer c.marksMu.Unlock()

	c.pendingAudio = nil
	marks := c.marks
	c.marks = nil
	// fire orphaned marks so no waiter is left hanging
	go func() {
		for _, mark := range marks {
			mark.callback()
		}
	}()
}

func (c *playbackDevice) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil

	return nil
}

func (c *playbackDevice) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		c.audioMu.Lock()
		if len(c.pendingAudio) == 0 {
			c.audioMu.Unlock()
			c.processMarks(0)
			return
		}

		consumed := need
		if len(c.pendingAudio) < need {
			consumed = len(c.pendingAudio)
			copy(pOutput, c.pendingAudio)
			c.pendingAudio = nil
		} else {
			copy(pOutput, c.pendingAudio[:need])
			c.pendingAudio = c.pendingAudio[need:]
		}
		c.audioMu.Unlock()

		c.processMarks(consumed)
	}
}

func (c *playbackDevice) processMarks(consumed int) {
	c.marksMu.Lock()
	passedMarks := 0
	for i := range c.marks {
		if c.marks[i].position > consumed {
			c.marks[i].position -= consumed
		} else {
			c.marks[i].position = 0
			passedMarks++
		}
	}
	if passedMarks == 0 {
		c.marksMu.Unlock()
		return
	}

	toCall := make([]playbackMark, passedMarks)
	copy(toCall, c.marks[:passedMarks])
	c.marks = c.marks[passedMarks:]
	c.marksMu.Unlock()

	go func() {
		for _, mark := range toCall {
			mark.callback()
		}
	}()
}
