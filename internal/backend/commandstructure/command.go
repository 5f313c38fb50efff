package commandstructure

import "image"

// Command transforms a decoded frame before it is handed to the barcode readers
type Command interface {
	Name() string
	Execute(img image.Image) (image.Image, error)
}

// CommandFactory builds a command from the parameters of its config entry
type CommandFactory func(params map[string]any) (Command, error)

// CommandConfig is one entry of the `commands` list; every key besides name is a parameter
type CommandConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:",inline"`
}
