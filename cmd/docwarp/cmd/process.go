package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docwarp/docwarp/internal/pipeline"
	"github.com/spf13/cobra"
)

// processCmd represents the process command.
var processCmd = &cobra.Command{
	Use:   "process <input>",
	Short: "Extract and rectify a document from a photo",
	Long: `Process a document photo: segment the document from the background,
locate its four corners and warp it into a flat, axis-aligned PNG.

Examples:
  docwarp process photo.jpg
  docwarp process photo.jpg -o scan.png
  docwarp process photo.jpg --strategy grabcut --padding 0.1
  docwarp process photo.jpg --strategy neural-net --fallback-strategy watershed`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	input := args[0]
	cfg := GetConfig()

	pCfg := cfg.ToPipelineConfig()
	applyPipelineFlags(cmd, &pCfg)

	if debug, _ := cmd.Flags().GetString("debug-dir"); cmd.Flags().Changed("debug-dir") {
		pCfg.DebugDir = debug
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		ext := filepath.Ext(input)
		output = strings.TrimSuffix(input, ext) + "_rectified.png"
	}

	data, err := os.ReadFile(input) //nolint:gosec // G304: user-provided input path
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	proc, err := pipeline.NewProcessor(pCfg)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer func() { _ = proc.Close() }()

	pngData, res := proc.ProcessToPNG(data)
	if !res.Success {
		return fmt.Errorf("processing failed at %s stage: %s", res.Stage, res.Err())
	}

	if err := os.WriteFile(output, pngData, 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	slog.Info("Document extracted", "input", input, "output", output,
		"strategy", proc.StrategyName(), "duration", res.Elapsed.String())
	return nil
}

// applyPipelineFlags overrides pipeline settings with explicitly set flags.
func applyPipelineFlags(cmd *cobra.Command, pCfg *pipeline.Config) {
	if cmd.Flags().Changed("strategy") {
		pCfg.Strategy, _ = cmd.Flags().GetString("strategy")
	}
	if cmd.Flags().Changed("fallback-strategy") {
		pCfg.FallbackStrategy, _ = cmd.Flags().GetString("fallback-strategy")
	}
	if cmd.Flags().Changed("padding") {
		pCfg.PaddingRatio, _ = cmd.Flags().GetFloat64("padding")
	}
	if cmd.Flags().Changed("model-variant") {
		pCfg.ModelVariant, _ = cmd.Flags().GetString("model-variant")
	}
	if cmd.Flags().Changed("mask-threshold") {
		pCfg.MaskThreshold, _ = cmd.Flags().GetFloat64("mask-threshold")
	}
	if cmd.Flags().Changed("threads") {
		pCfg.NumThreads, _ = cmd.Flags().GetInt("threads")
	}
	if cmd.Flags().Changed("grabcut-margin") {
		pCfg.GrabCutMarginRatio, _ = cmd.Flags().GetFloat64("grabcut-margin")
	}
	if cmd.Flags().Changed("grabcut-iterations") {
		pCfg.GrabCutIterations, _ = cmd.Flags().GetInt("grabcut-iterations")
	}
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringP("output", "o", "", "output PNG path (default: <input>_rectified.png)")
	processCmd.Flags().String("strategy", "", "segmentation strategy (threshold, watershed, grabcut, neural-net)")
	processCmd.Flags().String("fallback-strategy", "",
		"strategy used when the neural model is unavailable (threshold, watershed, grabcut)")
	processCmd.Flags().Float64("padding", 0.05, "padding around the rectified document as a fraction of its size")
	processCmd.Flags().String("model-variant", "", "neural model variant (u2net, u2netp, silueta)")
	processCmd.Flags().Float64("mask-threshold", 0.5, "probability threshold for the neural mask (0..1)")
	processCmd.Flags().Int("threads", 0, "ONNX Runtime intra-op thread count")
	processCmd.Flags().Float64("grabcut-margin", 0.1, "grabcut initialization inset as a fraction of each dimension")
	processCmd.Flags().Int("grabcut-iterations", 4, "grabcut refinement iterations")
	processCmd.Flags().String("debug-dir", "", "write debug artifacts (mask, contour overlay) to this directory")
}
