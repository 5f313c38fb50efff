package commands

import (
	"fmt"

	"github.com/jo-hoe/barcoderelay/internal/backend/commandstructure"
)

// factories lists every preprocessing command that can be named in configuration
var factories = map[string]commandstructure.CommandFactory{
	"CropCommand":        NewCropCommand,
	"GrayscaleCommand":   NewGrayscaleCommand,
	"OrientationCommand": NewOrientationCommand,
	"ScaleCommand":       NewScaleCommand,
}

func init() {
	for name, factory := range factories {
		if err := commandstructure.DefaultRegistry.Register(name, factory); err != nil {
			panic(fmt.Sprintf("failed to register %s: %v", name, err))
		}
	}
}
