package domain

// VehicleAnalysis は推論サービスが返す車両識別結果です。
// IsVehicle が false の場合、その他のフィールドは意味を持ちません。
type VehicleAnalysis struct {
	IsVehicle       bool         `json:"isVehicle" yaml:"isVehicle"`
	Make            string       `json:"make" yaml:"make"`
	Model           string       `json:"model" yaml:"model"`
	YearRange       string       `json:"yearRange" yaml:"yearRange"`
	Type            string       `json:"type" yaml:"type"` // ボディタイプ (Sedan, SUV ...)
	Color           string       `json:"color,omitempty" yaml:"color,omitempty"`
	EstimatedPrice  string       `json:"estimatedPrice,omitempty" yaml:"estimatedPrice,omitempty"`
	Features        []string     `json:"features,omitempty" yaml:"features,omitempty"` // 表示順を保持
	Description     string       `json:"description" yaml:"description"`
	Performance     *Performance `json:"performance,omitempty" yaml:"performance,omitempty"`
	ConfidenceScore float64      `json:"confidenceScore" yaml:"confidenceScore"` // 0〜100 を想定、範囲検証はしない
}

// Performance は推定性能値です。どちらのフィールドも欠落し得ます。
type Performance struct {
	TopSpeed     string `json:"topSpeed,omitempty" yaml:"topSpeed,omitempty"`
	Acceleration string `json:"acceleration,omitempty" yaml:"acceleration,omitempty"`
}

// TopSpeed は nil 安全に最高速度を返します。
func (a *VehicleAnalysis) TopSpeed() string {
	if a == nil || a.Performance == nil {
		return ""
	}
	return a.Performance.TopSpeed
}

// Acceleration は nil 安全に加速性能を返します。
func (a *VehicleAnalysis) Acceleration() string {
	if a == nil || a.Performance == nil {
		return ""
	}
	return a.Performance.Acceleration
}
