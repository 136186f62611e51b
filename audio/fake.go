package audio

import "sync"

const (
	fakeFrameSize     = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext feeds a fixed PCM buffer through the capture callback.
// Tests use it in place of a real microphone.
type FakeContext struct {
	pcm     []byte
	failErr error
}

func NewFakeContext(pcm []byte) *FakeContext {
	return &FakeContext{pcm: pcm}
}

// FailWith makes every capture started from this context report err
// after its audio has been delivered, simulating a device failure.
func (f *FakeContext) FailWith(err error) {
	f.failErr = err
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) { return nil, nil }
func (f *FakeContext) Close()                         {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{pcm: f.pcm, failErr: f.failErr}, nil
}

type FakeCapture struct {
	pcm     []byte
	failErr error

	mu  sync.Mutex
	cb  DataCallback
	err error
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return "fake" }

// Start delivers the whole PCM buffer synchronously, then arms the
// injected failure if one was configured.
func (f *FakeCapture) Start() error {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()

	chunkBytes := fakeFrameSize * fakeBytesPerFrame
	if cb != nil {
		for pos := 0; pos < len(f.pcm); {
			end := min(pos+chunkBytes, len(f.pcm))
			chunk := make([]byte, end-pos)
			copy(chunk, f.pcm[pos:end])
			cb(chunk, uint32(len(chunk)/fakeBytesPerFrame))
			pos = end
		}
	}

	f.mu.Lock()
	f.err = f.failErr
	f.mu.Unlock()
	return nil
}

func (f *FakeCapture) Stop() {}

func (f *FakeCapture) Close() {}

func (f *FakeCapture) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
