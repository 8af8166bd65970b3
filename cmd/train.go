/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/andriiCH4/PINN/InputParameters"
	"github.com/andriiCH4/PINN/model_problems/Combustion1D"
)

type ModelTrain struct {
	ICFile     string
	Graph      bool
	Delay      time.Duration
	Procs      int
	Profile    bool
	Perf       bool
	Seed       uint64
	Checkpoint string
}

// TrainCmd represents the train command
var TrainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the combustion network against the PDE residuals",
	Long: `
Trains the network on the built-in methane deflagration case, or on the
case described by a YAML parameters file,

pinn train -I input.yaml --graph`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("train called")
		mt := &ModelTrain{}
		if mt.ICFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		mt.Graph, _ = cmd.Flags().GetBool("graph")
		dr, _ := cmd.Flags().GetInt("delay")
		mt.Delay = time.Duration(dr) * time.Millisecond
		mt.Procs, _ = cmd.Flags().GetInt("procs")
		mt.Profile, _ = cmd.Flags().GetBool("profile")
		mt.Perf, _ = cmd.Flags().GetBool("perf")
		mt.Seed, _ = cmd.Flags().GetUint64("seed")
		mt.Checkpoint, _ = cmd.Flags().GetString("checkpoint")
		ip := processTrainInput(mt)
		RunTrain(mt, ip)
	},
}

func processTrainInput(mt *ModelTrain) (ip *InputParameters.InputParametersPINN) {
	var (
		err  error
		data []byte
	)
	ip = InputParameters.DefaultPINN()
	if len(mt.ICFile) != 0 {
		if data, err = ioutil.ReadFile(mt.ICFile); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			exampleFile := `
########################################
Title: "Fast Methane Case"
Iterations: 2000
LearningRate: 0.001
NumDomain: 1000
Distribution: halton # Can be "uniform"
LBFGSIterations: 200
########################################
`
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		if err = ip.Parse(data); err != nil {
			fmt.Printf("error parsing input parameters file: %s\n", err.Error())
			os.Exit(1)
		}
	}
	if len(mt.Checkpoint) != 0 {
		ip.CheckpointFile = mt.Checkpoint
	}
	return
}

func RunTrain(mt *ModelTrain, ip *InputParameters.InputParametersPINN) {
	if mt.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	ip.Print()
	c, err := Combustion1D.NewCombustion(ip, mt.Procs, mt.Seed)
	if err != nil {
		panic(err)
	}
	run := func() error { return c.Run(mt.Graph, mt.Delay) }
	if mt.Perf {
		err = runWithPerf(run)
	} else {
		err = run()
	}
	if err != nil {
		panic(err)
	}
}

func init() {
	rootCmd.AddCommand(TrainCmd)
	TrainCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file overriding the built-in case, keys like:\n\t- Iterations\n\t- LearningRate")
	TrainCmd.Flags().BoolP("graph", "g", false, "display the field profiles while training")
	TrainCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	TrainCmd.Flags().IntP("procs", "p", 0, "limit the number of worker goroutines, 0 uses all cores")
	TrainCmd.Flags().Bool("profile", false, "write a CPU profile of the training run")
	TrainCmd.Flags().Bool("perf", false, "count retired CPU instructions for the run (linux only)")
	TrainCmd.Flags().Uint64("seed", 1, "seed for sampling and weight initialization")
	TrainCmd.Flags().String("checkpoint", "", "override the checkpoint output path")
}
