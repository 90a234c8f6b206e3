package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shouni/gemini-vehicle-kit/pkg/domain"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// DefaultRefreshSeconds は解析中ページの自動再読み込み間隔です。
const DefaultRefreshSeconds = 2

// Page は HTML ページの描画に必要な入力です。
type Page struct {
	State          domain.AnalysisState
	Image          *domain.ImagePayload
	Notice         string // 状態に影響しない一時的な通知（画像以外のファイルを選んだ場合など）
	RefreshSeconds int
	ChartURL       string
}

var pageLabels = map[string]string{
	"BrandName":          BrandName,
	"BrandTagline":       BrandTagline,
	"HeroTitle":          HeroTitle,
	"HeroSubtitle":       HeroSubtitle,
	"UploadTitle":        UploadTitle,
	"UploadHint":         UploadHint,
	"UploadAnalyzing":    UploadAnalyzing,
	"UploadButton":       UploadButton,
	"ScanningText":       ScanningText,
	"ErrorHeading":       ErrorHeading,
	"RetryLabel":         RetryLabel,
	"ChangeImage":        ChangeImage,
	"NoVehicleTitle":     NoVehicleTitle,
	"NoVehicleBody":      NoVehicleBody,
	"LabelAccuracy":      LabelAccuracy,
	"LabelOverview":      LabelOverview,
	"LabelFeatures":      LabelFeatures,
	"LabelSpecs":         LabelSpecs,
	"LabelConfidence":    LabelConfidence,
	"LabelConfidenceBar": LabelConfidenceBar,
}

type specRow struct {
	Label string
	Value string
}

type pageData struct {
	L         map[string]string
	View      string
	Loading   bool
	Refresh   int
	Notice    string
	ImageURI  template.URL
	ImageName string
	ErrorText string
	Report    *domain.VehicleAnalysis
	Specs     []specRow
	Score     string
	Width     string
	Color     template.CSS
	ChartURL  string
	Year      int
}

func newPageData(p Page) pageData {
	view := Select(p.State)
	d := pageData{
		L:        pageLabels,
		View:     view.String(),
		Loading:  view == ViewScanning,
		Notice:   p.Notice,
		ChartURL: p.ChartURL,
		Year:     time.Now().Year(),
	}
	if p.Image != nil && domain.IsImageMediaType(p.Image.MediaType) {
		// data URI は html/template の既定では許可されないため明示的に信頼する
		d.ImageURI = template.URL(p.Image.DataURI())
		d.ImageName = p.Image.Name
	}
	if d.Loading {
		d.Refresh = p.RefreshSeconds
		if d.Refresh <= 0 {
			d.Refresh = DefaultRefreshSeconds
		}
	}
	switch view {
	case ViewError:
		d.ErrorText = errorText(p.State)
	case ViewReport:
		a := p.State.Data
		d.Report = a
		d.Specs = []specRow{
			{LabelEstimatedPrice, orNA(a.EstimatedPrice)},
			{LabelTopSpeed, orNA(a.TopSpeed())},
			{LabelAcceleration, orNA(a.Acceleration())},
		}
		d.Score = FormatScore(a.ConfidenceScore)
		d.Width = FormatScore(ClampConfidence(a.ConfidenceScore))
		d.Color = template.CSS(ConfidenceColor(a.ConfidenceScore))
	}
	return d
}

// WriteHTML は状態に応じた HTML ページを書き出します。
func WriteHTML(w io.Writer, p Page) error {
	if err := pageTemplate.Execute(w, newPageData(p)); err != nil {
		return fmt.Errorf("ページの描画に失敗しました: %w", err)
	}
	return nil
}
