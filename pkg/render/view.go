package render

import (
	"math"
	"strconv"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
)

// View は状態から決まる表示パネルです。
type View int

const (
	ViewUpload View = iota
	ViewScanning
	ViewReport
	ViewNoVehicle
	ViewError
)

func (v View) String() string {
	switch v {
	case ViewUpload:
		return "upload"
	case ViewScanning:
		return "scanning"
	case ViewReport:
		return "report"
	case ViewNoVehicle:
		return "no_vehicle"
	case ViewError:
		return "error"
	default:
		return "unknown"
	}
}

// Select は状態に対応する表示パネルを返します。
// success でも isVehicle が false なら常に ViewNoVehicle です。
func Select(s domain.AnalysisState) View {
	switch s.Status {
	case domain.StatusLoading:
		return ViewScanning
	case domain.StatusSuccess:
		if s.Data == nil || !s.Data.IsVehicle {
			return ViewNoVehicle
		}
		return ViewReport
	case domain.StatusError:
		return ViewError
	default:
		return ViewUpload
	}
}

const (
	ColorHigh = "#10b981"
	ColorLow  = "#f59e0b"
)

// ConfidenceColor は信頼度が 80 を超える場合に緑、それ以外は琥珀色を返します。
func ConfidenceColor(score float64) string {
	if score > 80 {
		return ColorHigh
	}
	return ColorLow
}

// ClampConfidence は表示用に信頼度を [0, 100] に収めます。NaN は 0 として扱います。
func ClampConfidence(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(100, score))
}

// FormatScore は信頼度を "92" や "87.5" のように余分な桁なしで整形します。
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func orNA(v string) string {
	if v == "" {
		return NotAvailable
	}
	return v
}

func errorText(s domain.AnalysisState) string {
	if s.Error == "" {
		return FallbackError
	}
	return s.Error
}
