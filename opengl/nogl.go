//go:build nogl

package opengl

import (
	"fmt"
	"os"

	"github.com/ErikLambrechts/fishpond"
)

// Run returns an error explaining that OpenGL support is disabled.
func Run(s *fishpond.Simulation, conf *Config) error {
	return fmt.Errorf("%s was built without OpenGL support", os.Args[0])
}
