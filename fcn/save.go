package fcn

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/sugarme/gotch/nn"
)

// archFileExt is appended to a weight file path to store the architecture.
const archFileExt = ".json"

type architecture struct {
	Variant string `json:"variant"`
	Config  Config `json:"config"`
}

// Save writes the network to path: parameters in gotch format at `path` and
// the architecture (variant and config) at `path.json`. Conventionally the
// path should end with ".gt" or ".ot".
func (n *Network) Save(path string) error {
	log.Printf("Saving model... %v\n", path)

	err := n.vs.Save(path)
	if err != nil {
		return err
	}

	arch := architecture{
		Variant: n.variant.String(),
		Config:  n.config,
	}
	data, err := json.MarshalIndent(arch, "", "  ")
	if err != nil {
		return err
	}

	return ioutil.WriteFile(path+archFileExt, data, 0644)
}

// Load rebuilds a network saved with Save into vs and loads its parameters.
func Load(vs *nn.VarStore, path string) (*Network, error) {
	data, err := ioutil.ReadFile(path + archFileExt)
	if err != nil {
		return nil, err
	}
	var arch architecture
	if err := json.Unmarshal(data, &arch); err != nil {
		return nil, fmt.Errorf("Invalid architecture file %v: %w", path+archFileExt, err)
	}
	variant, err := ParseVariant(arch.Variant)
	if err != nil {
		return nil, err
	}

	net, err := build(vs, variant, arch.Config)
	if err != nil {
		return nil, err
	}
	if err := vs.Load(path); err != nil {
		return nil, err
	}
	if variant == FCN32sFrozen {
		net.freezeBackbone()
	}

	return net, nil
}
