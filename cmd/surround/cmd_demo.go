package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agbru/surround/internal/format"
	"github.com/agbru/surround/pkg/config"
	"github.com/agbru/surround/pkg/surround"
)

var (
	demoProject string
	demoTrain   bool
	demoBatch   bool
)

var demoCmd = &cobra.Command{
	Use:   "demo [name]",
	Short: "Run the greeting pipeline against a name",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoProject, "project", "", "project root to load config.yaml from")
	demoCmd.Flags().BoolVar(&demoTrain, "train", false, "run the pipeline in training mode")
	demoCmd.Flags().BoolVar(&demoBatch, "batch", false, "enable batch mode (visualise after predict runs)")
}

// demoState is the carrier for the greeting pipeline.
type demoState struct {
	surround.State
	Name     string
	Greeting string
}

// nameValidator rejects carriers without a name.
type nameValidator struct{}

func (nameValidator) Validate(s *demoState, _ *config.Config) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("a non-empty name is required")
	}
	return nil
}

// greeter builds the greeting, honouring greeter.suffix when configured.
type greeter struct{}

func (greeter) Name() string { return "greeter" }

func (greeter) Initialise(*config.Config) error { return nil }

func (greeter) Fit(*demoState, *config.Config) error {
	return fmt.Errorf("the greeting pipeline has nothing to train")
}

func (greeter) Estimate(s *demoState, cfg *config.Config) error {
	s.Greeting = "Hello, " + s.Name
	if cfg != nil && cfg.Has("greeter.suffix") {
		s.Greeting += " " + cfg.String("greeter.suffix")
	}
	return nil
}

// printVisualiser renders the greeting in training and batch runs.
type printVisualiser struct{}

func (printVisualiser) Visualise(s *demoState, _ *config.Config) error {
	fmt.Println(s.Greeting)
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadForProject(demoProject)
	if err != nil {
		return err
	}

	asm, err := surround.New[*demoState]("greeting pipeline", nameValidator{}, nil, cfg)
	if err != nil {
		return err
	}

	trimName := surround.FilterFunc("trim-name", func(s *demoState, _ *config.Config) error {
		s.Name = strings.TrimSpace(s.Name)
		return nil
	})
	punctuate := surround.FilterFunc("punctuate", func(s *demoState, _ *config.Config) error {
		if s.Greeting != "" && !strings.HasSuffix(s.Greeting, "!") {
			s.Greeting += "!"
		}
		return nil
	})
	if err := asm.SetEstimator(greeter{},
		[]surround.Filter[*demoState]{trimName},
		[]surround.Filter[*demoState]{punctuate}); err != nil {
		return err
	}
	if err := asm.SetVisualiser(printVisualiser{}); err != nil {
		return err
	}
	if err := asm.SetFinaliser(surround.FilterFunc("summary", func(s *demoState, _ *config.Config) error {
		for _, md := range s.StageMetadata() {
			fmt.Printf("  %-12s %s\n", md.StageName, format.StageDuration(md.Duration))
		}
		return nil
	})); err != nil {
		return err
	}
	asm.Init(demoBatch)

	s := &demoState{Name: "World"}
	if len(args) > 0 {
		s.Name = args[0]
	}
	if err := asm.Run(s, demoTrain); err != nil {
		return err
	}

	if len(s.Failures()) > 0 {
		fmt.Printf("run degraded: %d contained failure(s)\n", len(s.Failures()))
		for _, f := range s.Failures() {
			fmt.Printf("  %s\n", f)
		}
		return nil
	}
	fmt.Println(s.Greeting)
	return nil
}
