package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
)

const barWidth = 20

// WriteText は状態をターミナル向けのテキストレポートとして書き出します。
func WriteText(w io.Writer, s domain.AnalysisState) error {
	tw := &textWriter{w: w}

	switch Select(s) {
	case ViewUpload:
		tw.line(HeroTitle)
		tw.line(HeroSubtitle)
	case ViewScanning:
		tw.line(ScanningText)
	case ViewError:
		tw.line(ErrorHeading)
		tw.line(errorText(s))
	case ViewNoVehicle:
		tw.line(NoVehicleTitle)
		tw.line(NoVehicleBody)
	case ViewReport:
		writeReport(tw, s.Data)
	}
	return tw.err
}

func writeReport(tw *textWriter, a *domain.VehicleAnalysis) {
	tw.line(strings.ToUpper(a.Make))
	tw.line(a.Model)

	badges := []string{a.YearRange}
	if a.Color != "" {
		badges = append(badges, a.Color)
	}
	badges = append(badges, a.Type)
	tw.printf("[%s]\n", strings.Join(badges, "] ["))
	tw.printf("%s: %s%%\n", LabelAccuracy, FormatScore(a.ConfidenceScore))
	tw.line("")

	tw.printf("== %s ==\n", LabelOverview)
	tw.line(a.Description)
	if len(a.Features) > 0 {
		tw.printf("-- %s --\n", LabelFeatures)
		for _, f := range a.Features {
			tw.printf("  - %s\n", f)
		}
	}
	tw.line("")

	tw.printf("== %s ==\n", LabelSpecs)
	tw.printf("  %-18s %s\n", LabelEstimatedPrice, orNA(a.EstimatedPrice))
	tw.printf("  %-18s %s\n", LabelTopSpeed, orNA(a.TopSpeed()))
	tw.printf("  %-18s %s\n", LabelAcceleration, orNA(a.Acceleration()))
	tw.line("")

	tw.printf("%s\n%s\n", LabelConfidence, ConfidenceBar(a.ConfidenceScore))
}

// ConfidenceBar は信頼度を固定幅の ASCII バーで表します。
func ConfidenceBar(score float64) string {
	clamped := ClampConfidence(score)
	filled := int(math.Round(clamped / 100 * barWidth))
	return fmt.Sprintf("[%s%s] %s%%",
		strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled), FormatScore(clamped))
}

// textWriter は最初の書き込みエラーを保持します。
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) line(s string) {
	t.printf("%s\n", s)
}
