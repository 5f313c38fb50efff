package commandstructure

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"
)

// CommandInvoker runs the preprocessing pipeline of a scanner, one stage after another
type CommandInvoker struct {
	commands []Command
}

func NewCommandInvoker(commands []Command) *CommandInvoker {
	return &CommandInvoker{commands: commands}
}

// NewCommandInvokerFromConfig resolves the whole pipeline at startup so that a
// misconfigured command is reported before the first frame arrives.
func NewCommandInvokerFromConfig(registry *CommandRegistry, configs []CommandConfig) (*CommandInvoker, error) {
	commands := make([]Command, len(configs))
	for i, config := range configs {
		command, err := registry.Create(config.Name, config.Params)
		if err != nil {
			return nil, fmt.Errorf("commands[%d]: %w", i, err)
		}
		commands[i] = command
	}
	return NewCommandInvoker(commands), nil
}

func (i *CommandInvoker) Len() int {
	return len(i.commands)
}

// Execute stops early when ctx is done; the frame is useless once the uploader is gone
func (i *CommandInvoker) Execute(ctx context.Context, frame image.Image) (image.Image, error) {
	for idx, command := range i.commands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		started := time.Now()
		in := frame.Bounds().Size()
		out, err := command.Execute(frame)
		if err != nil {
			slog.Warn("preprocessing stage failed",
				"stage", idx,
				"command_name", command.Name(),
				"frame_size", in.String(),
				"error", err)
			return nil, fmt.Errorf("%s (stage %d): %w", command.Name(), idx, err)
		}

		slog.Debug("preprocessing stage done",
			"stage", idx,
			"command_name", command.Name(),
			"frame_size", in.String(),
			"result_size", out.Bounds().Size().String(),
			"duration_ms", time.Since(started).Milliseconds())
		frame = out
	}
	return frame, nil
}
