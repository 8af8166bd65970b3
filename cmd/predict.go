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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andriiCH4/PINN/geometry"
	"github.com/andriiCH4/PINN/model_problems/Combustion1D"
	"github.com/andriiCH4/PINN/nn"
)

type ModelPredict struct {
	Checkpoint string
	OutputFile string
	NX, NT     int
	XMax       float64
	FinalTime  float64
	Graph      bool
	Delay      time.Duration
}

// PredictCmd represents the predict command
var PredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Evaluate a trained model on a space-time grid, output CSV",
	Long: `
Loads a checkpoint written by the train command and writes the predicted
Y and Temp fields on a uniform grid,

pinn predict --checkpoint model_checkpoint -o solution.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		mp := &ModelPredict{}
		mp.Checkpoint, _ = cmd.Flags().GetString("checkpoint")
		mp.OutputFile, _ = cmd.Flags().GetString("outputFile")
		mp.NX, _ = cmd.Flags().GetInt("nx")
		mp.NT, _ = cmd.Flags().GetInt("nt")
		mp.XMax, _ = cmd.Flags().GetFloat64("xMax")
		mp.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
		mp.Graph, _ = cmd.Flags().GetBool("graph")
		dr, _ := cmd.Flags().GetInt("delay")
		mp.Delay = time.Duration(dr) * time.Millisecond
		RunPredict(mp)
	},
}

func RunPredict(mp *ModelPredict) {
	net, err := nn.LoadCheckpoint(mp.Checkpoint)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if mp.NX < 2 || mp.NT < 2 {
		fmt.Printf("error: grid needs at least 2 points per axis, got %d x %d\n", mp.NX, mp.NT)
		os.Exit(1)
	}
	iv, err := geometry.NewInterval(0, mp.XMax)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	td, err := geometry.NewTimeDomain(0, mp.FinalTime)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	sp := geometry.NewSampler(geometry.NewSpaceTime(iv, td), geometry.Uniform, 0)
	X := sp.UniformGrid(mp.NX, mp.NT)
	P := net.Predict(X)

	out := os.Stdout
	if len(mp.OutputFile) != 0 {
		if out, err = os.Create(mp.OutputFile); err != nil {
			panic(err)
		}
		defer out.Close()
	}
	fmt.Fprintf(out, "x,t,Y,Temp\n")
	_, n := X.Dims()
	for j := 0; j < n; j++ {
		fmt.Fprintf(out, "%v,%v,%v,%v\n", X.At(0, j), X.At(1, j), P.At(0, j), P.At(1, j))
	}
	if mp.Graph {
		Combustion1D.PlotCheckpoint(net, mp.XMax, mp.FinalTime, mp.Delay)
	}
}

func init() {
	rootCmd.AddCommand(PredictCmd)
	PredictCmd.Flags().StringP("checkpoint", "c", "model_checkpoint", "trained model file to load")
	PredictCmd.Flags().StringP("outputFile", "o", "", "CSV output path, default stdout")
	PredictCmd.Flags().Int("nx", 101, "number of spatial stations")
	PredictCmd.Flags().Int("nt", 11, "number of time stations")
	PredictCmd.Flags().Float64("xMax", 1.0, "domain length")
	PredictCmd.Flags().Float64("finalTime", 1.0, "end time of the grid")
	PredictCmd.Flags().BoolP("graph", "g", false, "plot the final-time profiles")
	PredictCmd.Flags().IntP("delay", "d", 5000, "milliseconds to keep the plot up")
}
