package commandstructure

import "image"

// mockCommand passes frames through unless executeFunc is set
type mockCommand struct {
	name        string
	executeFunc func(image.Image) (image.Image, error)
}

func (m *mockCommand) Name() string { return m.name }

func (m *mockCommand) Execute(img image.Image) (image.Image, error) {
	if m.executeFunc == nil {
		return img, nil
	}
	return m.executeFunc(img)
}

func newMockCommand(name string) *mockCommand {
	return &mockCommand{name: name}
}

func newMockCommandWithError(name string, err error) *mockCommand {
	fail := func(image.Image) (image.Image, error) { return nil, err }
	return &mockCommand{name: name, executeFunc: fail}
}
