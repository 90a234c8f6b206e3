package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func camryState() domain.AnalysisState {
	return domain.SuccessState(1, &domain.VehicleAnalysis{
		IsVehicle:       true,
		Make:            "Toyota",
		Model:           "Camry",
		YearRange:       "2020-2024",
		Type:            "Sedan",
		Color:           "Trắng",
		EstimatedPrice:  "1.1 - 1.5 tỷ VND",
		Features:        []string{"Đèn LED", "Cửa sổ trời"},
		Description:     "Sedan hạng D.",
		Performance:     &domain.Performance{TopSpeed: "210 km/h"},
		ConfidenceScore: 92,
	})
}

func TestWriteText(t *testing.T) {
	t.Run("レポートに必要な項目がすべて出力される", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, camryState()))
		out := buf.String()

		for _, want := range []string{
			"TOYOTA", "Camry", "[2020-2024] [Trắng] [Sedan]",
			LabelAccuracy + ": 92%",
			LabelOverview, "Sedan hạng D.",
			LabelFeatures, "  - Đèn LED", "  - Cửa sổ trời",
			"1.1 - 1.5 tỷ VND", "210 km/h",
			"[##################..] 92%",
		} {
			assert.Contains(t, out, want)
		}
		// 加速性能が無いときは N/A
		assert.Regexp(t, `Tăng tốc \(0-100\)\s+N/A`, out)
	})

	t.Run("車両なしは専用メッセージ", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, domain.SuccessState(1, &domain.VehicleAnalysis{IsVehicle: false})))
		assert.Contains(t, buf.String(), NoVehicleTitle)
		assert.NotContains(t, buf.String(), LabelAccuracy)
	})

	t.Run("エラーはメッセージを表示する", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, domain.ErrorState(1, "quota exceeded")))
		assert.Contains(t, buf.String(), ErrorHeading)
		assert.Contains(t, buf.String(), "quota exceeded")
	})

	t.Run("スキャン中", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, domain.LoadingState(1)))
		assert.Contains(t, buf.String(), ScanningText)
	})

	t.Run("書き込みエラーを返す", func(t *testing.T) {
		err := WriteText(failingWriter{}, camryState())
		assert.Error(t, err)
	})
}

func TestConfidenceBar(t *testing.T) {
	assert.Equal(t, "[....................] 0%", ConfidenceBar(-3))
	assert.Equal(t, "[##########..........] 50%", ConfidenceBar(50))
	assert.Equal(t, "[####################] 100%", ConfidenceBar(130))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
