package snapshot

import (
	"gopkg.in/yaml.v2"

	"github.com/nomyx/engine/engine"
)

// DumpYAML renders a Game's persisted state as human-readable YAML,
// the same rendering choice the teacher's dataplane.go and sio/crew.go
// make for debugging output alongside their JSON wire format.
func DumpYAML(g *engine.Game) (string, error) {
	b, err := yaml.Marshal(Summarize(g))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
