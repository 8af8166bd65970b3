package nn

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	checkpointFormat  = "pinn-fnn"
	checkpointVersion = 1
)

type checkpointFile struct {
	Format     string    `json:"format"`
	Version    int       `json:"version"`
	Widths     []int     `json:"widths"`
	Activation string    `json:"activation"`
	Params     []float64 `json:"params"`
}

// SaveCheckpoint persists the architecture and flat parameter vector to path.
// JSON keeps the float64 values round-trip exact, so reloading reproduces
// bit-identical predictions.
func (net *FNN) SaveCheckpoint(path string) (err error) {
	ck := checkpointFile{
		Format:     checkpointFormat,
		Version:    checkpointVersion,
		Widths:     net.Widths,
		Activation: net.Act.String(),
		Params:     net.Params(make([]float64, 0, net.ParamCount())),
	}
	data, err := json.Marshal(ck)
	if err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing checkpoint %s: %w", path, err)
	}
	return
}

// LoadCheckpoint rebuilds a network from a saved checkpoint, validating the
// format tag and version before touching the payload.
func LoadCheckpoint(path string) (net *FNN, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint %s: %w", path, err)
	}
	var ck checkpointFile
	if err = json.Unmarshal(data, &ck); err != nil {
		return nil, fmt.Errorf("decoding checkpoint %s: %w", path, err)
	}
	if ck.Format != checkpointFormat {
		return nil, fmt.Errorf("checkpoint %s: unexpected format %q", path, ck.Format)
	}
	if ck.Version != checkpointVersion {
		return nil, fmt.Errorf("checkpoint %s: unsupported version %d", path, ck.Version)
	}
	act, err := ParseActivation(ck.Activation)
	if err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", path, err)
	}
	if net, err = New(ck.Widths, act, GlorotNormal, 0); err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", path, err)
	}
	if len(ck.Params) != net.ParamCount() {
		return nil, fmt.Errorf("checkpoint %s: parameter count %d does not match architecture %v",
			path, len(ck.Params), ck.Widths)
	}
	net.SetParams(ck.Params)
	return
}
