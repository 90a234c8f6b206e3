package domain

// Status は解析セッションの状態です。
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// AnalysisState は idle / loading / success / error のタグ付きユニオンです。
// Data は success のときだけ、Error は error のときだけ値を持ちます。
type AnalysisState struct {
	Status     Status           `json:"status"`
	Data       *VehicleAnalysis `json:"data"`
	Error      string           `json:"error,omitempty"`
	Generation uint64           `json:"generation"`
}

func IdleState(gen uint64) AnalysisState {
	return AnalysisState{Status: StatusIdle, Generation: gen}
}

func LoadingState(gen uint64) AnalysisState {
	return AnalysisState{Status: StatusLoading, Generation: gen}
}

func SuccessState(gen uint64, data *VehicleAnalysis) AnalysisState {
	return AnalysisState{Status: StatusSuccess, Data: data, Generation: gen}
}

func ErrorState(gen uint64, msg string) AnalysisState {
	return AnalysisState{Status: StatusError, Error: msg, Generation: gen}
}

// Valid は状態とペイロードの組み合わせが不変条件を満たすかを返します。
func (s AnalysisState) Valid() bool {
	switch s.Status {
	case StatusIdle, StatusLoading:
		return s.Data == nil && s.Error == ""
	case StatusSuccess:
		return s.Data != nil && s.Error == ""
	case StatusError:
		return s.Data == nil && s.Error != ""
	default:
		return false
	}
}
