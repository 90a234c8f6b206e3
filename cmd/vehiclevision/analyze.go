package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shouni/gemini-vehicle-kit/pkg/acquire"
	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
	"github.com/shouni/gemini-vehicle-kit/pkg/render"
	"github.com/shouni/gemini-vehicle-kit/pkg/session"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// errAnalysisFailed は解析がエラー状態で終わった場合の終了用エラーです。
var errAnalysisFailed = errors.New("analysis failed")

func newAnalyzeCmd(flags *rootFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Analyze a single image file and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			client, err := newAnalyzer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			ctrl, err := session.NewController(client,
				session.WithBaseContext(cmd.Context()),
				session.WithAcquirer(acquire.NewAcquirer(cfg.Server.MaxUploadBytes)),
			)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if _, err := ctrl.SelectImage(cmd.Context(), acquire.FileSource{Path: args[0]}); err != nil {
				return fmt.Errorf("%s", acquire.UserMessage(err))
			}
			state, err := ctrl.Await(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeReport(cmd.OutOrStdout(), format, state); err != nil {
				return err
			}
			if state.Status == domain.StatusError {
				return errAnalysisFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func validateFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format: %q", format)
	}
}

// writeReport は確定した状態を指定形式で書き出します。
func writeReport(w io.Writer, format string, state domain.AnalysisState) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlReport(state)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return render.WriteText(w, state)
	}
}

type yamlState struct {
	Status     domain.Status           `yaml:"status"`
	Generation uint64                  `yaml:"generation"`
	Data       *domain.VehicleAnalysis `yaml:"data,omitempty"`
	Error      string                  `yaml:"error,omitempty"`
}

func yamlReport(s domain.AnalysisState) yamlState {
	return yamlState{Status: s.Status, Generation: s.Generation, Data: s.Data, Error: s.Error}
}
