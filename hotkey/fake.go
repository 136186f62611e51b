package hotkey

type FakeHotkey struct {
	pressed chan struct{}

	RegisterErr error
	Registered  bool
}

func NewFake() *FakeHotkey {
	return &FakeHotkey{
		pressed: make(chan struct{}, 1),
	}
}

func (f *FakeHotkey) Register() error {
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.Registered = true
	return nil
}

func (f *FakeHotkey) Unregister() { f.Registered = false }

func (f *FakeHotkey) Pressed() <-chan struct{} { return f.pressed }

func (f *FakeHotkey) SimPress() { f.pressed <- struct{}{} }
