package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParametersPINN struct {
	Title              string  `yaml:"Title"`
	XMax               float64 `yaml:"XMax"`
	FinalTime          float64 `yaml:"FinalTime"`
	Velocity           float64 `yaml:"Velocity"`
	SpeciesDiffusivity float64 `yaml:"SpeciesDiffusivity"`
	ThermalDiffusivity float64 `yaml:"ThermalDiffusivity"`
	RateConstant       float64 `yaml:"RateConstant"`
	ActivationEnergy   float64 `yaml:"ActivationEnergy"`
	GasConstant        float64 `yaml:"GasConstant"`
	HeatRelease        float64 `yaml:"HeatRelease"`
	TempFloor          float64 `yaml:"TempFloor"`
	HiddenLayers       int     `yaml:"HiddenLayers"`
	HiddenWidth        int     `yaml:"HiddenWidth"`
	Activation         string  `yaml:"Activation"`
	Initializer        string  `yaml:"Initializer"`
	LearningRate       float64 `yaml:"LearningRate"`
	Iterations         int     `yaml:"Iterations"`
	LBFGSIterations    int     `yaml:"LBFGSIterations"`
	NumDomain          int     `yaml:"NumDomain"`
	NumBoundary        int     `yaml:"NumBoundary"`
	NumInitial         int     `yaml:"NumInitial"`
	NumTest            int     `yaml:"NumTest"`
	Distribution       string  `yaml:"Distribution"`
	DisplayEvery       int     `yaml:"DisplayEvery"`
	SkipSelfCheck      bool    `yaml:"SkipSelfCheck"`
	CheckpointFile     string  `yaml:"CheckpointFile"`
}

// DefaultPINN is the stock methane deflagration case. A YAML file parsed on
// top of it overrides only the keys it names.
func DefaultPINN() *InputParametersPINN {
	return &InputParametersPINN{
		Title:              "Methane Combustion",
		XMax:               1.0,
		FinalTime:          1.0,
		Velocity:           1.0,
		SpeciesDiffusivity: 0.01,
		ThermalDiffusivity: 0.01,
		RateConstant:       10.0,
		ActivationEnergy:   50.0,
		GasConstant:        1.0,
		HeatRelease:        10.0,
		TempFloor:          1.e-3,
		HiddenLayers:       3,
		HiddenWidth:        50,
		Activation:         "tanh",
		Initializer:        "glorot_normal",
		LearningRate:       1.e-3,
		Iterations:         5000,
		LBFGSIterations:    0,
		NumDomain:          2540,
		NumBoundary:        80,
		NumInitial:         160,
		NumTest:            10000,
		Distribution:       "halton",
		DisplayEvery:       1000,
		CheckpointFile:     "model_checkpoint",
	}
}

func (ip *InputParametersPINN) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersPINN) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= XMax\n", ip.XMax)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%8.5f\t\t= Velocity\n", ip.Velocity)
	fmt.Printf("%8.5f\t\t= SpeciesDiffusivity\n", ip.SpeciesDiffusivity)
	fmt.Printf("%8.5f\t\t= ThermalDiffusivity\n", ip.ThermalDiffusivity)
	fmt.Printf("%8.5f\t\t= RateConstant\n", ip.RateConstant)
	fmt.Printf("%8.5f\t\t= ActivationEnergy\n", ip.ActivationEnergy)
	fmt.Printf("%8.5f\t\t= GasConstant\n", ip.GasConstant)
	fmt.Printf("%8.5f\t\t= HeatRelease\n", ip.HeatRelease)
	fmt.Printf("%8.5f\t\t= TempFloor\n", ip.TempFloor)
	fmt.Printf("[%d x %d]\t\t= Hidden layers\n", ip.HiddenLayers, ip.HiddenWidth)
	fmt.Printf("[%s]\t\t\t= Activation\n", ip.Activation)
	fmt.Printf("[%s]\t= Initializer\n", ip.Initializer)
	fmt.Printf("%8.5f\t\t= LearningRate\n", ip.LearningRate)
	fmt.Printf("[%d]\t\t\t= Iterations\n", ip.Iterations)
	fmt.Printf("[%d]\t\t\t\t= LBFGSIterations\n", ip.LBFGSIterations)
	fmt.Printf("[%d/%d/%d/%d]\t= Points domain/boundary/initial/test\n",
		ip.NumDomain, ip.NumBoundary, ip.NumInitial, ip.NumTest)
	fmt.Printf("[%s]\t\t\t= Distribution\n", ip.Distribution)
	fmt.Printf("[%s]\t= CheckpointFile\n", ip.CheckpointFile)
}
